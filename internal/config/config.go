// Package config loads ignore files and application configuration for codecollector.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codecollector/internal/utils"
)

const (
	// commentPrefix marks ignore-file lines that carry no pattern.
	commentPrefix = "#"
	// errorLoadIgnoreFileFormat reports a failure to read the project ignore file.
	errorLoadIgnoreFileFormat = "loading %s from %s: %w"
	// warningCloseFileFormat reports a failure to close an ignore file.
	warningCloseFileFormat = "Warning: failed to close %s: %v\n"
)

// defaultIgnorePatterns are always excluded, regardless of project ignore files.
var defaultIgnorePatterns = []string{
	utils.GitDirectoryName,
	"__pycache__",
	"*.egg-info",
	".pytest_cache",
	".vscode",
	".idea",
}

// DefaultIgnorePatterns returns a copy of the built-in ignore patterns.
func DefaultIgnorePatterns() []string {
	return append([]string(nil), defaultIgnorePatterns...)
}

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns, one per non-empty,
// non-comment line, in file order. A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, warningCloseFileFormat, ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadIgnorePatterns returns the built-in defaults followed by the patterns listed in the
// base directory's utils.IgnoreFileName, preserving order.
func LoadIgnorePatterns(baseDirectory string) ([]string, error) {
	ignoreFilePath := filepath.Join(baseDirectory, utils.IgnoreFileName)
	filePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf(errorLoadIgnoreFileFormat, utils.IgnoreFileName, baseDirectory, loadError)
	}
	return append(DefaultIgnorePatterns(), filePatterns...), nil
}
