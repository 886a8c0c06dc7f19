package ignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/codecollector/internal/config"
	"github.com/temirov/codecollector/internal/ignore"
	"github.com/temirov/codecollector/internal/utils"
)

func newTestMatcher(t *testing.T, baseDirectory string, patterns []string, useGitignore bool) *ignore.Matcher {
	t.Helper()
	matcher, matcherError := ignore.NewMatcher(ignore.MatcherOptions{
		BaseDirectory: baseDirectory,
		Patterns:      patterns,
		UseGitignore:  useGitignore,
	})
	if matcherError != nil {
		t.Fatalf("NewMatcher error: %v", matcherError)
	}
	return matcher
}

func TestShouldIgnoreDefaultPatterns(t *testing.T) {
	baseDirectory := t.TempDir()
	matcher := newTestMatcher(t, baseDirectory, config.DefaultIgnorePatterns(), false)
	for _, pattern := range config.DefaultIgnorePatterns() {
		name := pattern
		if pattern == "*.egg-info" {
			name = "package.egg-info"
		}
		directoryPath := filepath.Join(baseDirectory, name)
		if err := os.MkdirAll(directoryPath, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", directoryPath, err)
		}
		if !matcher.ShouldIgnore(directoryPath) {
			t.Fatalf("expected %s to be ignored by %s", name, pattern)
		}
		if !matcher.ShouldIgnore(filepath.Join(directoryPath, "nested.py")) {
			t.Fatalf("expected contents of %s to be ignored", name)
		}
	}
}

func TestShouldIgnoreRules(t *testing.T) {
	testCases := []struct {
		name         string
		patterns     []string
		relativePath string
		isDirectory  bool
		expected     bool
	}{
		{name: "extension pattern on nested file", patterns: []string{"*.pyc"}, relativePath: "a/b/file.pyc", expected: true},
		{name: "extension pattern spares sibling", patterns: []string{"*.pyc"}, relativePath: "a/b/file.py", expected: false},
		{name: "segment pattern", patterns: []string{"build"}, relativePath: "build/output/main.py", expected: true},
		{name: "segment pattern inside tree", patterns: []string{"node_modules"}, relativePath: "web/node_modules/pkg/index.js", expected: true},
		{name: "segment pattern spares similar names", patterns: []string{"build"}, relativePath: "builder/main.py", expected: false},
		{name: "suffix pattern", patterns: []string{"*_test.py"}, relativePath: "pkg/module_test.py", expected: true},
		{name: "nested pattern", patterns: []string{"docs/**/*.md"}, relativePath: "docs/api/index.md", expected: true},
		{name: "nested pattern outside prefix", patterns: []string{"docs/**/*.md"}, relativePath: "src/api/index.md", expected: false},
		{name: "directory-only pattern on directory", patterns: []string{"dist/"}, relativePath: "dist", isDirectory: true, expected: true},
		{name: "directory-only pattern skips file", patterns: []string{"dist/"}, relativePath: "dist", isDirectory: false, expected: false},
		{name: "directory-only pattern on contents", patterns: []string{"dist/"}, relativePath: "dist/bundle.js", expected: true},
		{name: "no patterns", patterns: nil, relativePath: "main.py", expected: false},
		{name: "second pattern matches", patterns: []string{"*.txt", "secret.py"}, relativePath: "secret.py", expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			baseDirectory := t.TempDir()
			matcher := newTestMatcher(t, baseDirectory, testCase.patterns, false)
			actual := matcher.ShouldIgnoreEntry(filepath.Join(baseDirectory, filepath.FromSlash(testCase.relativePath)), testCase.isDirectory)
			if actual != testCase.expected {
				t.Fatalf("expected %t for %s with %v, got %t", testCase.expected, testCase.relativePath, testCase.patterns, actual)
			}
		})
	}
}

func TestShouldIgnoreAcceptsRelativePaths(t *testing.T) {
	baseDirectory := t.TempDir()
	matcher := newTestMatcher(t, baseDirectory, []string{"*.log"}, false)
	if !matcher.ShouldIgnore("logs/app.log") {
		t.Fatalf("expected relative path to be resolved against the base directory")
	}
	if matcher.ShouldIgnore("logs/app.py") {
		t.Fatalf("expected python file to be kept")
	}
}

func TestShouldIgnoreMatchesBaseDirectoryAsDot(t *testing.T) {
	baseDirectory := filepath.Join(t.TempDir(), "build")
	if err := os.MkdirAll(filepath.Join(baseDirectory, "build"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	matcher := newTestMatcher(t, baseDirectory, []string{"build"}, false)
	if matcher.ShouldIgnoreEntry(baseDirectory, true) {
		t.Fatalf("expected base directory named like a pattern to be kept")
	}
	if !matcher.ShouldIgnoreEntry(filepath.Join(baseDirectory, "build"), true) {
		t.Fatalf("expected nested build directory to be ignored")
	}
	dotMatcher := newTestMatcher(t, baseDirectory, []string{"."}, false)
	if !dotMatcher.ShouldIgnoreEntry(baseDirectory, true) {
		t.Fatalf("expected a \".\" pattern to match the base directory")
	}
}

func TestShouldIgnoreStatsDirectories(t *testing.T) {
	baseDirectory := t.TempDir()
	directoryPath := filepath.Join(baseDirectory, "cache")
	if err := os.Mkdir(directoryPath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	matcher := newTestMatcher(t, baseDirectory, []string{"cache/"}, false)
	if !matcher.ShouldIgnore(directoryPath) {
		t.Fatalf("expected existing directory to match directory-only pattern")
	}
}

func TestShouldIgnoreWithGitignore(t *testing.T) {
	baseDirectory := t.TempDir()
	gitignorePath := filepath.Join(baseDirectory, utils.GitIgnoreFileName)
	if err := os.WriteFile(gitignorePath, []byte("generated/\n*.tmp\n"), 0o600); err != nil {
		t.Fatalf("write gitignore: %v", err)
	}
	withGitignore := newTestMatcher(t, baseDirectory, nil, true)
	withoutGitignore := newTestMatcher(t, baseDirectory, nil, false)

	if !withGitignore.ShouldIgnoreEntry(filepath.Join(baseDirectory, "generated"), true) {
		t.Fatalf("expected gitignored directory to be ignored")
	}
	if !withGitignore.ShouldIgnoreEntry(filepath.Join(baseDirectory, "scratch.tmp"), false) {
		t.Fatalf("expected gitignored file to be ignored")
	}
	if withGitignore.ShouldIgnoreEntry(filepath.Join(baseDirectory, "main.py"), false) {
		t.Fatalf("expected regular file to be kept")
	}
	if withoutGitignore.ShouldIgnoreEntry(filepath.Join(baseDirectory, "scratch.tmp"), false) {
		t.Fatalf("expected gitignore to be unused when disabled")
	}
}

func TestNewMatcherToleratesMissingGitignore(t *testing.T) {
	matcher := newTestMatcher(t, t.TempDir(), nil, true)
	if matcher.ShouldIgnore("main.py") {
		t.Fatalf("expected nothing to be ignored")
	}
}
