package selection_test

import (
	"bytes"
	"testing"

	"github.com/temirov/codecollector/internal/selection"
)

func TestRenderShowsVisibleNodesWithCursorAndMarks(t *testing.T) {
	sample := newSampleTree()
	controller := selection.NewController(sample.tree)
	sample.tree.Node(sample.util).Expanded = false
	sample.tree.Node(sample.setup).Selected = true

	var output bytes.Buffer
	if renderError := controller.Render(&output); renderError != nil {
		t.Fatalf("Render error: %v", renderError)
	}
	expected := "" +
		">[ ]- project\n" +
		"│    [ ]- docs\n" +
		"│        [ ]  guide.md\n" +
		"│    [ ]- src\n" +
		"│   │    [ ]  app.py\n" +
		"│        [ ]+ util\n" +
		"     [x]  setup.py\n"
	if output.String() != expected {
		t.Fatalf("unexpected render:\n%s\nexpected:\n%s", output.String(), expected)
	}
}

func TestLinesTrackCursor(t *testing.T) {
	sample := newSampleTree()
	controller := selection.NewController(sample.tree)
	controller.Apply(selection.EventMoveUp)

	lines := controller.Lines()
	if len(lines) != sample.tree.Len() {
		t.Fatalf("expected %d lines, got %d", sample.tree.Len(), len(lines))
	}
	for _, line := range lines {
		if line.Cursor != (line.Index == sample.setup) {
			t.Fatalf("cursor flag wrong on %s", line.Name)
		}
	}
}
