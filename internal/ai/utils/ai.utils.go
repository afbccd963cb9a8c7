package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"whiteboard2web/internal/types"
)

// ErrUnsafePath is returned for file names that would escape the project directory.
var ErrUnsafePath = errors.New("unsafe project file path")

// SaveProjectDisk writes every file of the project below root/projectID and
// returns that directory. Names are checked before anything is written.
func SaveProjectDisk(root, projectID string, project *types.ProjectStructure) (string, error) {
	if project == nil {
		return "", errors.New("nil project")
	}
	if !filepath.IsLocal(projectID) {
		return "", fmt.Errorf("%w: project id %q", ErrUnsafePath, projectID)
	}
	for _, fileData := range project.ProjectStructure {
		if !filepath.IsLocal(filepath.FromSlash(fileData.File)) {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, fileData.File)
		}
	}

	projectDir := filepath.Join(root, projectID)
	filesCount := 0
	for _, fileData := range project.ProjectStructure {
		filePath := filepath.Join(projectDir, filepath.FromSlash(fileData.File))
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory for %s: %w", fileData.File, err)
		}
		if err := os.WriteFile(filePath, []byte(fileData.Content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write file %s: %w", filePath, err)
		}
		filesCount++
	}
	log.Printf("Successfully stored project %s: %d files created in %s", projectID, filesCount, projectDir)
	return projectDir, nil
}
