// Package tui drives the selection controller from a bubbletea terminal program.
package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/codecollector/internal/selection"
)

const (
	headerTitle    = "CodeCollector Interactive Mode"
	helpSeparator  = "  "
	chromeRowCount = 4
)

const errorRunProgramFormat = "run interactive selection: %w"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	directoryStyle = lipgloss.NewStyle().Bold(true)
	guideStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model is the bubbletea model of one selection session. Every key press is applied to the
// controller before the next one is read.
type Model struct {
	controller *selection.Controller
	keys       keyMap
	outcome    selection.Outcome
	height     int
}

// NewModel wraps controller.
func NewModel(controller *selection.Controller) Model {
	return Model{controller: controller, keys: defaultKeyMap()}
}

// Outcome reports how the session ended; OutcomeContinue means it has not ended yet.
func (model Model) Outcome() selection.Outcome {
	return model.outcome
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := msg.(type) {
	case tea.WindowSizeMsg:
		model.height = typedMessage.Height
	case tea.KeyMsg:
		event, bound := model.keys.event(typedMessage)
		if !bound {
			return model, nil
		}
		if outcome := model.controller.Apply(event); outcome != selection.OutcomeContinue {
			model.outcome = outcome
			return model, tea.Quit
		}
	}
	return model, nil
}

func (model Model) View() string {
	if model.outcome != selection.OutcomeContinue {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(titleStyle.Render(headerTitle))
	builder.WriteString("\n")
	builder.WriteString(helpStyle.Render(model.helpLine()))
	builder.WriteString("\n\n")
	for _, line := range model.window(model.controller.Lines()) {
		builder.WriteString(renderLine(line))
		builder.WriteString("\n")
	}
	return builder.String()
}

func (model Model) helpLine() string {
	parts := make([]string, 0, len(model.keys.bindings()))
	for _, binding := range model.keys.bindings() {
		help := binding.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", help.Key, help.Desc))
	}
	return strings.Join(parts, helpSeparator)
}

// window trims lines to the terminal height while keeping the cursor line in view.
func (model Model) window(lines []selection.Line) []selection.Line {
	available := model.height - chromeRowCount
	if model.height == 0 || available <= 0 || len(lines) <= available {
		return lines
	}
	cursorPosition := 0
	for position, line := range lines {
		if line.Cursor {
			cursorPosition = position
			break
		}
	}
	start := cursorPosition - available/2
	if start < 0 {
		start = 0
	}
	if start+available > len(lines) {
		start = len(lines) - available
	}
	return lines[start : start+available]
}

func renderLine(line selection.Line) string {
	checkbox := line.Checkbox()
	if line.Selected {
		checkbox = checkedStyle.Render(checkbox)
	}
	name := line.Name
	if line.IsDirectory {
		name = directoryStyle.Render(name)
	}
	marker := line.Marker()
	if line.Cursor {
		marker = cursorStyle.Render(marker)
		name = cursorStyle.Render(line.Name)
	}
	return guideStyle.Render(line.Prefix) + marker + checkbox + line.Expander() + name
}

// Run shows the selection program on output, reading keys from input, and returns how the
// session ended. A program that exits without finish or quit reports OutcomeQuit.
func Run(controller *selection.Controller, input io.Reader, output io.Writer) (selection.Outcome, error) {
	program := tea.NewProgram(NewModel(controller), tea.WithInput(input), tea.WithOutput(output), tea.WithAltScreen())
	finalModel, runError := program.Run()
	if runError != nil {
		return selection.OutcomeQuit, fmt.Errorf(errorRunProgramFormat, runError)
	}
	model, isModel := finalModel.(Model)
	if !isModel || model.Outcome() == selection.OutcomeContinue {
		return selection.OutcomeQuit, nil
	}
	return model.Outcome(), nil
}
