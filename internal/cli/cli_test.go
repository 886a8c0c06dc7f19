package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/temirov/codecollector/internal/selection"
	"github.com/temirov/codecollector/internal/utils"
)

type recordingCopier struct {
	copied string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = text
	return copier.err
}

type commandHarness struct {
	app         *application
	output      *bytes.Buffer
	errorOutput *bytes.Buffer
	copier      *recordingCopier
}

func newCommandHarness(t *testing.T, input string) *commandHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	previousNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previousNoColor })

	harness := &commandHarness{
		output:      &bytes.Buffer{},
		errorOutput: &bytes.Buffer{},
		copier:      &recordingCopier{},
	}
	harness.app = &application{
		input:       strings.NewReader(input),
		output:      harness.output,
		errorOutput: harness.errorOutput,
		logger:      zap.NewNop(),
		logLevel:    zap.NewAtomicLevel(),
		copier:      harness.copier,
		isTerminal:  func(io.Reader) bool { return false },
	}
	return harness
}

func (harness *commandHarness) execute(arguments ...string) error {
	rootCommand := harness.app.createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	projectDirectory := t.TempDir()
	for relativePath, content := range files {
		fullPath := filepath.Join(projectDirectory, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", relativePath, err)
		}
	}
	return projectDirectory
}

func aggregatedHeaders(t *testing.T, outputPath string, projectDirectory string) []string {
	t.Helper()
	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var headers []string
	for _, line := range strings.Split(string(content), "\n") {
		if path, isHeader := strings.CutPrefix(line, "// File: "); isHeader {
			headers = append(headers, utils.RelativePathOrSelf(path, projectDirectory))
		}
	}
	return headers
}

func standardProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"a.py":                 "print('a')\n",
		"b.js":                 "console.log('b')\n",
		"c.txt":                "notes\n",
		"pkg/d.py":             "d = 4\n",
		"pkg/__pycache__/e.py": "cached\n",
		".git/config.py":       "git\n",
		".ccignore":            "# generated code\nbuild\n",
		"build/gen.py":         "generated\n",
	})
}

func TestRootCommandAggregatesMatchingFiles(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedHeaders []string
	}{
		{
			name:            "default_extension",
			expectedHeaders: []string{"a.py", "pkg/d.py"},
		},
		{
			name:            "multiple_extensions_without_dot",
			arguments:       []string{"-t", ".py", "-t", "js"},
			expectedHeaders: []string{"a.py", "b.js", "pkg/d.py"},
		},
		{
			name:            "no_recursive",
			arguments:       []string{"--no-recursive"},
			expectedHeaders: []string{"a.py"},
		},
		{
			name:            "recursive_literal_value",
			arguments:       []string{"--recursive", "no", "-t", ".js"},
			expectedHeaders: []string{"b.js"},
		},
		{
			name:            "recursive_shorthand_literal_value",
			arguments:       []string{"-r", "no"},
			expectedHeaders: []string{"a.py"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			projectDirectory := standardProject(t)
			outputPath := filepath.Join(t.TempDir(), "out.txt")
			harness := newCommandHarness(t, "")
			arguments := append([]string{"-d", projectDirectory, "-o", outputPath}, testCase.arguments...)
			if err := harness.execute(arguments...); err != nil {
				t.Fatalf("execute: %v", err)
			}
			headers := aggregatedHeaders(t, outputPath, projectDirectory)
			if !reflect.DeepEqual(headers, testCase.expectedHeaders) {
				t.Fatalf("expected %v, got %v", testCase.expectedHeaders, headers)
			}
			expectedMessage := fmt.Sprintf(aggregatedMessageFormat, len(testCase.expectedHeaders), outputPath)
			if !strings.Contains(harness.output.String(), expectedMessage) {
				t.Fatalf("expected %q in output, got %q", expectedMessage, harness.output.String())
			}
		})
	}
}

func TestRootCommandLayersFlagsOverConfigurationFile(t *testing.T) {
	projectDirectory := standardProject(t)
	outputDirectory := t.TempDir()
	configPath := filepath.Join(outputDirectory, "settings.yaml")
	configOutputPath := filepath.Join(outputDirectory, "from-config.txt")
	configContent := "directory: " + projectDirectory + "\noutput: " + configOutputPath + "\nrecursive: false\nfile_types:\n  - .js\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	harness := newCommandHarness(t, "")
	if err := harness.execute("--config", configPath); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if headers := aggregatedHeaders(t, configOutputPath, projectDirectory); !reflect.DeepEqual(headers, []string{"b.js"}) {
		t.Fatalf("expected configuration file to apply, got %v", headers)
	}

	flagOutputPath := filepath.Join(outputDirectory, "from-flags.txt")
	harness = newCommandHarness(t, "")
	if err := harness.execute("--config", configPath, "-o", flagOutputPath, "-r", "-t", ".py"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if headers := aggregatedHeaders(t, flagOutputPath, projectDirectory); !reflect.DeepEqual(headers, []string{"a.py", "pkg/d.py"}) {
		t.Fatalf("expected flags to override configuration, got %v", headers)
	}
}

func TestInteractiveSelectionFromScriptedInput(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{
		"a.py":     "a\n",
		"b.txt":    "b\n",
		"src/c.py": "c\n",
		"src/d.md": "d\n",
	})
	outputPath := filepath.Join(t.TempDir(), "out.txt")
	// Arena order: root, a.py, b.txt, src, src/c.py, src/d.md.
	script := "down\nenter\ndown\ndown\nenter\nf\n"
	harness := newCommandHarness(t, script)
	if err := harness.execute("-d", projectDirectory, "-o", outputPath, "-i"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	headers := aggregatedHeaders(t, outputPath, projectDirectory)
	expected := []string{"a.py", "src/c.py", "src/d.md"}
	if !reflect.DeepEqual(headers, expected) {
		t.Fatalf("expected %v, got %v", expected, headers)
	}
	if !strings.Contains(harness.output.String(), "Aggregated 3 files into "+outputPath) {
		t.Fatalf("unexpected output %q", harness.output.String())
	}
}

func TestInteractiveQuitWritesNothing(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{"a.py": "a\n"})
	outputPath := filepath.Join(t.TempDir(), "out.txt")
	harness := newCommandHarness(t, "enter\nq\n")
	if err := harness.execute("-d", projectDirectory, "-o", outputPath, "--interactive"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if harness.output.String() != quitMessage {
		t.Fatalf("expected quit message, got %q", harness.output.String())
	}
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file after quit, stat error: %v", statErr)
	}
}

func TestInteractiveInputEndingEarlyFails(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{"a.py": "a\n"})
	harness := newCommandHarness(t, "down\n")
	err := harness.execute("-d", projectDirectory, "-o", filepath.Join(t.TempDir(), "out.txt"), "-i")
	if !errors.Is(err, selection.ErrInputExhausted) {
		t.Fatalf("expected ErrInputExhausted, got %v", err)
	}
}

func TestVerboseScriptedSelectionRendersTree(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{"a.py": "a\n"})
	harness := newCommandHarness(t, "down\nq\n")
	if err := harness.execute("-d", projectDirectory, "-o", filepath.Join(t.TempDir(), "out.txt"), "-i", "--verbose"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(harness.errorOutput.String(), ">[ ]  a.py") {
		t.Fatalf("expected rendered tree with cursor on a.py, got %q", harness.errorOutput.String())
	}
}

func TestCopyFlagPlacesOutputOnClipboard(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{"a.py": "a = 1\n"})
	outputPath := filepath.Join(t.TempDir(), "out.txt")
	harness := newCommandHarness(t, "")
	if err := harness.execute("-d", projectDirectory, "-o", outputPath, "--copy"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if harness.copier.copied != string(content) {
		t.Fatalf("expected clipboard to hold the output file")
	}
	if !strings.Contains(harness.output.String(), strings.TrimSpace(copiedMessage)) {
		t.Fatalf("expected copy confirmation, got %q", harness.output.String())
	}
}

func TestCopyFailureIsAWarning(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{"a.py": "a = 1\n"})
	harness := newCommandHarness(t, "")
	harness.copier.err = errors.New("no clipboard")
	if err := harness.execute("-d", projectDirectory, "-o", filepath.Join(t.TempDir(), "out.txt"), "--copy"); err != nil {
		t.Fatalf("expected clipboard failure not to fail the run, got %v", err)
	}
	if !strings.Contains(harness.errorOutput.String(), "no clipboard") {
		t.Fatalf("expected warning on stderr, got %q", harness.errorOutput.String())
	}
}

func TestUnwritableOutputIsFatal(t *testing.T) {
	projectDirectory := writeProject(t, map[string]string{"a.py": "a\n"})
	harness := newCommandHarness(t, "")
	if err := harness.execute("-d", projectDirectory, "-o", filepath.Join(t.TempDir(), "missing", "out.txt")); err == nil {
		t.Fatalf("expected error for unwritable output path")
	}
}

func TestMissingBaseDirectoryIsFatal(t *testing.T) {
	harness := newCommandHarness(t, "")
	if err := harness.execute("-d", filepath.Join(t.TempDir(), "absent"), "-o", filepath.Join(t.TempDir(), "out.txt")); err == nil {
		t.Fatalf("expected error for missing base directory")
	}
}

func TestVersionFlag(t *testing.T) {
	harness := newCommandHarness(t, "")
	if err := harness.execute("--version"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(harness.output.String(), "codecollector version: ") {
		t.Fatalf("unexpected version output %q", harness.output.String())
	}
}

func TestInitCommandWritesGlobalConfiguration(t *testing.T) {
	harness := newCommandHarness(t, "")
	if err := harness.execute("init", "--global"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
	if _, statErr := os.Stat(expectedPath); statErr != nil {
		t.Fatalf("expected configuration at %s: %v", expectedPath, statErr)
	}
	if !strings.Contains(harness.output.String(), expectedPath) {
		t.Fatalf("expected path in output, got %q", harness.output.String())
	}

	harness.output.Reset()
	if err := harness.execute("init", "--global"); err == nil {
		t.Fatalf("expected second init without --force to fail")
	}
	if err := harness.execute("init", "--global", "--force"); err != nil {
		t.Fatalf("expected --force to overwrite: %v", err)
	}
}
