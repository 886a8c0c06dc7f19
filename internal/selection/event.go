package selection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Event is an abstract key press understood by the Controller.
type Event int

// Events accepted by Controller.Apply.
const (
	EventMoveUp Event = iota
	EventMoveDown
	EventToggleExpand
	EventToggleSelect
	EventFinish
	EventQuit
)

// Outcome reports whether the event loop continues after an event.
type Outcome int

// Possible outcomes of Controller.Apply.
const (
	OutcomeContinue Outcome = iota
	OutcomeFinished
	OutcomeQuit
)

const errorUnknownEventFormat = "unknown event %q"

var eventNames = map[Event]string{
	EventMoveUp:       "up",
	EventMoveDown:     "down",
	EventToggleExpand: "expand",
	EventToggleSelect: "select",
	EventFinish:       "finish",
	EventQuit:         "quit",
}

var eventAliases = map[string]Event{
	"up":     EventMoveUp,
	"k":      EventMoveUp,
	"down":   EventMoveDown,
	"j":      EventMoveDown,
	"expand": EventToggleExpand,
	"space":  EventToggleExpand,
	"select": EventToggleSelect,
	"enter":  EventToggleSelect,
	"finish": EventFinish,
	"f":      EventFinish,
	"quit":   EventQuit,
	"q":      EventQuit,
}

// String returns the canonical name of the event.
func (event Event) String() string {
	if name, known := eventNames[event]; known {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(event))
}

// ParseEvent converts an event name or key alias ("k", "space", "enter") into an Event.
func ParseEvent(name string) (Event, error) {
	event, known := eventAliases[strings.ToLower(strings.TrimSpace(name))]
	if !known {
		return 0, fmt.Errorf(errorUnknownEventFormat, name)
	}
	return event, nil
}

// EventSource yields events one at a time, blocking until the next one is available.
// io.EOF signals that no further events will arrive.
type EventSource interface {
	NextEvent() (Event, error)
}

// LineEventSource reads one event name per line; blank lines and "#" comments are skipped.
type LineEventSource struct {
	scanner *bufio.Scanner
}

// NewLineEventSource returns an EventSource reading from reader.
func NewLineEventSource(reader io.Reader) *LineEventSource {
	return &LineEventSource{scanner: bufio.NewScanner(reader)}
}

// NextEvent returns the next event or io.EOF when the input is exhausted.
func (source *LineEventSource) NextEvent() (Event, error) {
	for source.scanner.Scan() {
		line := strings.TrimSpace(source.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return ParseEvent(line)
	}
	if scanError := source.scanner.Err(); scanError != nil {
		return 0, scanError
	}
	return 0, io.EOF
}

// ErrInputExhausted is returned by Run when the source ends before finish or quit.
var ErrInputExhausted = errors.New("event input ended before finish or quit")
