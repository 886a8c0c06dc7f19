// Package selection implements the interactive file selection state machine: a cursor over
// the visible nodes of a tree, expand/collapse of directories and selection that propagates
// from a directory to its whole subtree.
package selection

import (
	"errors"
	"fmt"
	"io"

	"github.com/temirov/codecollector/internal/tree"
)

// Controller holds the cursor and per-node flags of one interactive session.
// It is not safe for concurrent use.
type Controller struct {
	tree   *tree.Tree
	cursor int
}

// NewController places the cursor on the root of selectionTree.
func NewController(selectionTree *tree.Tree) *Controller {
	return &Controller{tree: selectionTree, cursor: tree.RootIndex}
}

// Tree returns the tree being edited.
func (controller *Controller) Tree() *tree.Tree {
	return controller.tree
}

// Cursor returns the arena index of the node under the cursor.
func (controller *Controller) Cursor() int {
	return controller.cursor
}

// Apply performs event and reports whether the loop should continue.
func (controller *Controller) Apply(event Event) Outcome {
	switch event {
	case EventQuit:
		return OutcomeQuit
	case EventFinish:
		return OutcomeFinished
	case EventMoveUp:
		controller.move(-1)
	case EventMoveDown:
		controller.move(1)
	case EventToggleExpand:
		controller.toggleExpand()
	case EventToggleSelect:
		controller.toggleSelect()
	}
	return OutcomeContinue
}

// Run applies events from source, calling render after every event that keeps the loop
// alive, until finish or quit. render may be nil.
func (controller *Controller) Run(source EventSource, render func(*Controller) error) (Outcome, error) {
	for {
		event, eventError := source.NextEvent()
		if eventError != nil {
			if errors.Is(eventError, io.EOF) {
				return OutcomeContinue, ErrInputExhausted
			}
			return OutcomeContinue, fmt.Errorf("reading event: %w", eventError)
		}
		outcome := controller.Apply(event)
		if outcome != OutcomeContinue {
			return outcome, nil
		}
		if render != nil {
			if renderError := render(controller); renderError != nil {
				return OutcomeContinue, renderError
			}
		}
	}
}

// move advances the cursor circularly through the arena, skipping hidden nodes.
func (controller *Controller) move(direction int) {
	nodeCount := controller.tree.Len()
	if nodeCount == 0 {
		return
	}
	candidate := controller.cursor
	for {
		candidate = ((candidate+direction)%nodeCount + nodeCount) % nodeCount
		if controller.Visible(candidate) {
			break
		}
	}
	controller.cursor = candidate
}

func (controller *Controller) toggleExpand() {
	node := controller.tree.Node(controller.cursor)
	if node.IsDirectory {
		node.Expanded = !node.Expanded
	}
}

// toggleSelect flips the cursor node and forces the new value onto every descendant.
func (controller *Controller) toggleSelect() {
	node := controller.tree.Node(controller.cursor)
	selected := !node.Selected
	controller.tree.Walk(controller.cursor, func(index int) bool {
		controller.tree.Node(index).Selected = selected
		return true
	})
}

// Visible reports whether every ancestor of the node at index is expanded. The root has no
// ancestors and is always visible.
func (controller *Controller) Visible(index int) bool {
	for ancestor := controller.tree.Node(index).Parent; ancestor != tree.NoParent; ancestor = controller.tree.Node(ancestor).Parent {
		if !controller.tree.Node(ancestor).Expanded {
			return false
		}
	}
	return true
}

// SelectedFiles flattens the selection depth-first: a selected directory contributes every
// file beneath it, a selected file contributes itself and an unselected directory is searched
// for independently selected entries.
func (controller *Controller) SelectedFiles() []string {
	if controller.tree.Len() == 0 {
		return nil
	}
	var files []string
	controller.tree.Walk(tree.RootIndex, func(index int) bool {
		node := controller.tree.Node(index)
		if !node.Selected {
			return node.IsDirectory
		}
		files = append(files, controller.tree.FilesUnder(index)...)
		return false
	})
	return files
}
