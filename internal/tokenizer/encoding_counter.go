package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errMissingEncoding = errors.New("token counter has no tiktoken encoding")

// encodingCounter counts the tokens of file content under one tiktoken encoding. Special-token
// markers that appear in collected files are counted as ordinary text.
type encodingCounter struct {
	encoding    *tiktoken.Tiktoken
	counterName string
}

func (counter encodingCounter) Name() string {
	return counter.counterName
}

func (counter encodingCounter) CountString(content string) (int, error) {
	if counter.encoding == nil {
		return 0, errMissingEncoding
	}
	return len(counter.encoding.EncodeOrdinary(content)), nil
}
