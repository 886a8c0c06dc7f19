package selection

import (
	"fmt"
	"io"
	"strings"
)

const (
	cursorMarker    = ">"
	noCursorMarker  = " "
	checkedBox      = "[x]"
	uncheckedBox    = "[ ]"
	expandedGlyph   = "- "
	collapsedGlyph  = "+ "
	fileGlyph       = "  "
	branchGuide     = "│   "
	lastBranchGuide = "    "
)

const errorRenderFormat = "rendering selection: %w"

// Line is one visible node as it appears in the selection view.
type Line struct {
	Index       int
	Prefix      string
	Name        string
	IsDirectory bool
	Expanded    bool
	Selected    bool
	Cursor      bool
}

// Marker returns the cursor column.
func (line Line) Marker() string {
	if line.Cursor {
		return cursorMarker
	}
	return noCursorMarker
}

// Checkbox returns the selection column.
func (line Line) Checkbox() string {
	if line.Selected {
		return checkedBox
	}
	return uncheckedBox
}

// Expander returns the expand/collapse column; files get blank padding.
func (line Line) Expander() string {
	switch {
	case line.IsDirectory && line.Expanded:
		return expandedGlyph
	case line.IsDirectory:
		return collapsedGlyph
	default:
		return fileGlyph
	}
}

// String renders the line without styling.
func (line Line) String() string {
	return line.Prefix + line.Marker() + line.Checkbox() + line.Expander() + line.Name
}

// Lines returns the visible nodes in display order. A collapsed directory hides its subtree.
func (controller *Controller) Lines() []Line {
	if controller.tree.Len() == 0 {
		return nil
	}
	return controller.appendLines(nil, 0, "")
}

func (controller *Controller) appendLines(lines []Line, index int, prefix string) []Line {
	node := controller.tree.Node(index)
	lines = append(lines, Line{
		Index:       index,
		Prefix:      prefix,
		Name:        node.Name,
		IsDirectory: node.IsDirectory,
		Expanded:    node.Expanded,
		Selected:    node.Selected,
		Cursor:      index == controller.cursor,
	})
	if !node.IsDirectory || !node.Expanded {
		return lines
	}
	for childPosition, childIndex := range node.Children {
		guide := branchGuide
		if childPosition == len(node.Children)-1 {
			guide = lastBranchGuide
		}
		lines = controller.appendLines(lines, childIndex, prefix+guide)
	}
	return lines
}

// VisibleNodes returns the arena indexes of the visible nodes in display order.
func (controller *Controller) VisibleNodes() []int {
	lines := controller.Lines()
	indexes := make([]int, 0, len(lines))
	for _, line := range lines {
		indexes = append(indexes, line.Index)
	}
	return indexes
}

// Render writes one unstyled line per visible node.
func (controller *Controller) Render(writer io.Writer) error {
	var builder strings.Builder
	for _, line := range controller.Lines() {
		builder.WriteString(line.String())
		builder.WriteString("\n")
	}
	if _, writeError := io.WriteString(writer, builder.String()); writeError != nil {
		return fmt.Errorf(errorRenderFormat, writeError)
	}
	return nil
}
