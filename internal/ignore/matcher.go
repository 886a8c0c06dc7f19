// Package ignore decides which filesystem paths are excluded from collection.
//
// Patterns are evaluated in order and the first pattern that matches a path by any of the
// following rules ignores it:
//
//  1. the base name matches the pattern;
//  2. the path is a directory and the pattern ends with "/" (a directory-only pattern) whose
//     remainder matches the base name;
//  3. any segment of the path relative to the base directory matches the pattern;
//  4. the pattern starts with "*" and the base name ends with the rest of the pattern;
//  5. the pattern contains "**" and matches the whole relative path.
//
// The base directory itself is matched under the name ".", so the name of the directory a
// collection runs from never excludes the whole run.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/temirov/codecollector/internal/utils"
)

const (
	pathSegmentSeparator = "/"
	wildcardPrefix       = "*"
	nestedWildcard       = "**"
	baseDirectoryName    = "."

	errorLoadGitignoreFormat = "loading %s from %s: %w"
	errorAbsoluteBaseFormat  = "resolving base directory %s: %w"
)

// Rule names the reason a path was ignored.
type Rule string

// Match rules in evaluation order.
const (
	RuleBaseName  Rule = "base name"
	RuleDirectory Rule = "directory"
	RuleSegment   Rule = "path segment"
	RuleSuffix    Rule = "suffix"
	RuleNested    Rule = "nested pattern"
	RuleGitignore Rule = "gitignore"
)

// MatcherOptions configures a Matcher.
type MatcherOptions struct {
	// BaseDirectory anchors relative paths; it is resolved to an absolute path.
	BaseDirectory string
	// Patterns are evaluated in order.
	Patterns []string
	// UseGitignore additionally applies the base directory's .gitignore.
	UseGitignore bool
	Logger       *zap.Logger
}

type compiledPattern struct {
	raw           string
	glob          globPattern
	directoryOnly bool
	suffix        string
	nested        bool
}

// Matcher evaluates ignore patterns against paths beneath a base directory.
type Matcher struct {
	baseDirectory string
	patterns      []compiledPattern
	gitignore     *gitignore.GitIgnore
	logger        *zap.Logger
}

// NewMatcher compiles the configured patterns. It fails only when the base directory cannot be
// resolved or an existing .gitignore cannot be read.
func NewMatcher(options MatcherOptions) (*Matcher, error) {
	absoluteBase, absoluteError := filepath.Abs(options.BaseDirectory)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorAbsoluteBaseFormat, options.BaseDirectory, absoluteError)
	}
	matcher := &Matcher{
		baseDirectory: absoluteBase,
		logger:        utils.LoggerOrNop(options.Logger),
	}
	for _, pattern := range options.Patterns {
		matcher.patterns = append(matcher.patterns, compilePattern(pattern))
	}
	if options.UseGitignore {
		gitignorePath := filepath.Join(absoluteBase, utils.GitIgnoreFileName)
		compiled, compileError := gitignore.CompileIgnoreFile(gitignorePath)
		if compileError != nil && !errors.Is(compileError, fs.ErrNotExist) {
			return nil, fmt.Errorf(errorLoadGitignoreFormat, utils.GitIgnoreFileName, absoluteBase, compileError)
		}
		matcher.gitignore = compiled
	}
	return matcher, nil
}

func compilePattern(pattern string) compiledPattern {
	compiled := compiledPattern{
		raw:    pattern,
		nested: strings.Contains(pattern, nestedWildcard),
	}
	globSource := pattern
	if strings.HasSuffix(pattern, pathSegmentSeparator) && len(pattern) > 1 {
		compiled.directoryOnly = true
		globSource = strings.TrimSuffix(pattern, pathSegmentSeparator)
	}
	compiled.glob = compileGlob(globSource)
	if strings.HasPrefix(pattern, wildcardPrefix) {
		compiled.suffix = strings.TrimPrefix(pattern, wildcardPrefix)
	}
	return compiled
}

// BaseDirectory returns the absolute directory that relative paths are computed from.
func (matcher *Matcher) BaseDirectory() string {
	return matcher.baseDirectory
}

// Patterns returns the raw patterns in evaluation order.
func (matcher *Matcher) Patterns() []string {
	patterns := make([]string, 0, len(matcher.patterns))
	for _, pattern := range matcher.patterns {
		patterns = append(patterns, pattern.raw)
	}
	return patterns
}

// ShouldIgnore reports whether path is excluded. The path may be absolute or relative to the
// base directory and need not exist; a path that cannot be inspected is treated as a file.
func (matcher *Matcher) ShouldIgnore(path string) bool {
	absolutePath := matcher.absolute(path)
	isDirectory := false
	if fileInformation, statError := os.Stat(absolutePath); statError == nil {
		isDirectory = fileInformation.IsDir()
	}
	return matcher.ShouldIgnoreEntry(absolutePath, isDirectory)
}

// ShouldIgnoreEntry is ShouldIgnore for callers that already know whether path is a directory.
func (matcher *Matcher) ShouldIgnoreEntry(path string, isDirectory bool) bool {
	absolutePath := matcher.absolute(path)
	relativePath := utils.RelativePathOrSelf(absolutePath, matcher.baseDirectory)
	rule, pattern, ignored := matcher.match(absolutePath, relativePath, isDirectory)
	if ignored {
		matcher.logger.Debug("Ignoring path",
			zap.String("path", relativePath),
			zap.String("rule", string(rule)),
			zap.String("pattern", pattern),
		)
		return true
	}
	matcher.logger.Debug("Not ignoring path", zap.String("path", relativePath))
	return false
}

func (matcher *Matcher) absolute(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(matcher.baseDirectory, path)
}

func (matcher *Matcher) match(absolutePath, relativePath string, isDirectory bool) (Rule, string, bool) {
	baseName := filepath.Base(absolutePath)
	if relativePath == baseDirectoryName {
		baseName = baseDirectoryName
	}
	pathSegments := strings.Split(relativePath, pathSegmentSeparator)

	for _, pattern := range matcher.patterns {
		if pattern.directoryOnly {
			if isDirectory && pattern.glob.Match(baseName) {
				return RuleDirectory, pattern.raw, true
			}
			// Every segment but the last names an ancestor directory.
			if matchesAnySegment(pattern.glob, pathSegments[:len(pathSegments)-1]) {
				return RuleSegment, pattern.raw, true
			}
			continue
		}
		if pattern.glob.Match(baseName) {
			return RuleBaseName, pattern.raw, true
		}
		if matchesAnySegment(pattern.glob, pathSegments) {
			return RuleSegment, pattern.raw, true
		}
		if pattern.suffix != "" && strings.HasSuffix(baseName, pattern.suffix) {
			return RuleSuffix, pattern.raw, true
		}
		if pattern.nested && pattern.glob.Match(relativePath) {
			return RuleNested, pattern.raw, true
		}
	}

	if matcher.gitignore != nil && relativePath != baseDirectoryName {
		candidate := relativePath
		if isDirectory {
			candidate += pathSegmentSeparator
		}
		if matcher.gitignore.MatchesPath(candidate) {
			return RuleGitignore, utils.GitIgnoreFileName, true
		}
	}
	return "", "", false
}

func matchesAnySegment(pattern globPattern, pathSegments []string) bool {
	for _, segment := range pathSegments {
		if pattern.Match(segment) {
			return true
		}
	}
	return false
}
