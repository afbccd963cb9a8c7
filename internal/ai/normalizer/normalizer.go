// Package normalizer turns the model's free-text answer into a
// ProjectStructure. Each stage either succeeds or hands over to the next,
// more lenient one: fence stripping, strict parse, brace extraction, and
// finally shape repair of the parsed document.
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"whiteboard2web/internal/types"
	"whiteboard2web/internal/utils"
)

// ErrMalformedResponse is returned when no usable project can be read from the response.
var ErrMalformedResponse = errors.New("malformed model response")

const jsonFence = "```json"

// Normalize extracts and repairs the project contained in a model response.
func Normalize(raw string) (*types.ProjectStructure, error) {
	doc, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return Repair(doc)
}

// StripFence removes a leading ```json fence line and the closing line.
func StripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, jsonFence) {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// Extract parses the response as a JSON object. When the (fence-stripped)
// text is not valid JSON it retries with the span from the first '{' to the
// last '}' of the raw text. Braces inside surrounding prose are not
// accounted for.
func Extract(raw string) (map[string]any, error) {
	doc, err := parseObject(StripFence(raw))
	if err == nil {
		return doc, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if doc, errBraces := parseObject(raw[start : end+1]); errBraces == nil {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
}

func parseObject(text string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("response is null")
	}
	return doc, nil
}

// legacyFields maps the flat response shape onto project file names.
var legacyFields = []struct {
	key  string
	file string
}{
	{"html", "index.html"},
	{"css", "styles.css"},
	{"javascript", "script.js"},
}

// Repair converts a parsed response into a ProjectStructure, filling in
// everything that can be derived: the file list from the legacy flat
// fields, the main_* previews, the feature list and the run instructions.
// The returned error wraps ErrMalformedResponse when the result still has
// no index.html; the partially repaired project is returned alongside it.
func Repair(doc map[string]any) (*types.ProjectStructure, error) {
	entries := fileEntries(doc["project_structure"])
	if !hasIndex(entries) {
		entries = legacyEntries(doc)
	}

	project := &types.ProjectStructure{
		ProjectStructure: entries,
		Explanation:      stringField(doc, "explanation"),
		LayoutType:       stringField(doc, "layout_type"),
	}
	project.MainHTML, project.MainCSS, project.MainJS = mainContents(entries)

	project.FunctionalFeatures = stringList(doc["functional_features"])
	if len(project.FunctionalFeatures) == 0 {
		project.FunctionalFeatures = InferFeatures(project.MainJS)
	}

	project.Instructions = stringField(doc, "instructions")
	if strings.TrimSpace(project.Instructions) == "" {
		project.Instructions = BuildInstructions(project.FunctionalFeatures)
	}

	if !project.HasIndex() {
		return project, fmt.Errorf("%w: response has no index.html", ErrMalformedResponse)
	}
	return project, nil
}

func fileEntries(v any) []types.FileEntry {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	entries := make([]types.FileEntry, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := fields["file"].(string)
		if name == "" {
			name, _ = fields["filename"].(string)
		}
		if name == "" {
			continue
		}
		entries = append(entries, types.FileEntry{File: name, Content: contentString(fields["content"])})
	}
	return entries
}

func legacyEntries(doc map[string]any) []types.FileEntry {
	entries := []types.FileEntry{}
	for _, f := range legacyFields {
		if v, ok := doc[f.key]; ok {
			entries = append(entries, types.FileEntry{File: f.file, Content: contentString(v)})
		}
	}
	return entries
}

func hasIndex(entries []types.FileEntry) bool {
	for _, e := range entries {
		if e.File == "index.html" {
			return true
		}
	}
	return false
}

// mainContents returns the content of the first HTML, CSS and JavaScript entries.
func mainContents(entries []types.FileEntry) (html, css, js string) {
	var seenHTML, seenCSS, seenJS bool
	for _, e := range entries {
		switch utils.DetermineFileType(e.File) {
		case "HTML":
			if !seenHTML {
				html, seenHTML = e.Content, true
			}
		case "CSS":
			if !seenCSS {
				css, seenCSS = e.Content, true
			}
		case "JavaScript":
			if !seenJS {
				js, seenJS = e.Content, true
			}
		}
	}
	return html, css, js
}

func contentString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprint(c)
		}
		return string(b)
	}
}

func stringField(doc map[string]any, key string) string {
	switch v := doc[key].(type) {
	case string:
		return v
	case []any:
		return strings.Join(stringList(v), "\n")
	default:
		return ""
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
