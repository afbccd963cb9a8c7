package utils

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DescribeTransportError gives a short label for a failed completion call,
// used in logs and in the fallback notes.
func DescribeTransportError(err error) string {
	if err == nil {
		return ""
	}
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) && openAIErr.HTTPStatusCode != 0 {
		return "HTTP " + strconv.Itoa(openAIErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return "HTTP " + strconv.Itoa(reqErr.HTTPStatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
		return "timeout"
	}
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "connection reset by peer") ||
		strings.Contains(errMsg, "no such host") {
		return "connection error"
	}
	return "request failed"
}

// DetermineFileType classifies a generated file by its name.
func DetermineFileType(filename string) string {
	lowerFilename := strings.ToLower(filename)
	ext := filepath.Ext(lowerFilename)
	switch ext {
	case ".html", ".htm":
		return "HTML"
	case ".css":
		return "CSS"
	case ".js", ".mjs":
		return "JavaScript"
	case ".json":
		return "JSON"
	case ".md":
		return "Markdown"
	case ".txt":
		return "Text"
	case ".svg":
		return "SVG"
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return "Image"
	default:
		return "Unknown"
	}
}
