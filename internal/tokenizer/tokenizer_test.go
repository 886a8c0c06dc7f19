package tokenizer

import "testing"

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesSkipsNonText(t *testing.T) {
	testCases := map[string][]byte{
		"nul bytes":    {0x00, 0x01, 0x02},
		"invalid utf8": {0xff, 0xfe, 'a'},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			result, err := CountBytes(testCounter{}, data)
			if err != nil {
				t.Fatalf("CountBytes error: %v", err)
			}
			if result.Counted {
				t.Fatalf("expected data to be skipped")
			}
		})
	}
}

func TestCountBytesNilCounter(t *testing.T) {
	if _, err := CountBytes(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter(Config{})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != DefaultModel {
		t.Fatalf("expected model %s, got %q", DefaultModel, model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestNewCounterUnknownModelFallsBackToDefaultEncoding(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "claude-3-5-sonnet"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != defaultEncodingName || counter.Name() != defaultEncodingName {
		t.Fatalf("expected %s fallback, got model %q counter %q", defaultEncodingName, model, counter.Name())
	}
}

func TestEncodingCounterWithoutEncodingFails(t *testing.T) {
	if _, err := (encodingCounter{counterName: defaultEncodingName}).CountString("text"); err != errMissingEncoding {
		t.Fatalf("expected errMissingEncoding, got %v", err)
	}
}
