// Package aggregate concatenates selected files into one plain-text document. Each file is
// written as a "// File: <path>" header, a blank line, the verbatim contents and a blank
// separator. A file that cannot be read is recorded inline and never aborts the run.
package aggregate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/codecollector/internal/tokenizer"
	"github.com/temirov/codecollector/internal/utils"
)

const (
	fileHeaderFormat     = "// File: %s\n\n"
	readErrorFormat      = "Error reading file: %s\n"
	entrySeparator       = "\n\n"
	outputFilePermission = 0o644
)

const (
	errorWriteOutputFormat  = "write aggregated output: %w"
	errorCreateOutputFormat = "create output file %s: %w"
	errorCloseOutputFormat  = "close output file %s: %w"
	errorCountTokensFormat  = "count tokens for %s: %w"
)

// Result reports what one aggregation wrote.
type Result struct {
	// Processed counts every attempted path, readable or not.
	Processed int
	// Failed counts paths whose contents were replaced by an inline read error.
	Failed int
	// Bytes is the total size of the file contents that were copied.
	Bytes int64
	// Tokens is the summed token estimate; zero when no Counter is configured.
	Tokens int
	// Model names the tokenizer used for Tokens.
	Model string
}

// Aggregator writes files into a single output stream.
type Aggregator struct {
	Logger  *zap.Logger
	Counter tokenizer.Counter
	Model   string
}

// Aggregate writes every path in filePaths to writer, in order. Only writer failures are
// returned as errors; unreadable files are reported inline.
func (aggregator Aggregator) Aggregate(filePaths []string, writer io.Writer) (Result, error) {
	logger := utils.LoggerOrNop(aggregator.Logger)
	bufferedWriter := bufio.NewWriter(writer)
	result := Result{}
	if aggregator.Counter != nil {
		result.Model = aggregator.Model
	}

	for _, filePath := range filePaths {
		result.Processed++
		if _, writeError := fmt.Fprintf(bufferedWriter, fileHeaderFormat, filePath); writeError != nil {
			return result, fmt.Errorf(errorWriteOutputFormat, writeError)
		}

		fileContent, readError := os.ReadFile(filePath)
		if readError != nil {
			result.Failed++
			logger.Warn("Unable to read file", zap.String("path", filePath), zap.Error(readError))
			if _, writeError := fmt.Fprintf(bufferedWriter, readErrorFormat, readError.Error()); writeError != nil {
				return result, fmt.Errorf(errorWriteOutputFormat, writeError)
			}
		} else {
			if _, writeError := bufferedWriter.Write(fileContent); writeError != nil {
				return result, fmt.Errorf(errorWriteOutputFormat, writeError)
			}
			result.Bytes += int64(len(fileContent))
			result.Tokens += aggregator.countTokens(logger, filePath, fileContent)
			logger.Debug("Aggregated file", zap.String("path", filePath), zap.Int("bytes", len(fileContent)))
		}

		if _, writeError := bufferedWriter.WriteString(entrySeparator); writeError != nil {
			return result, fmt.Errorf(errorWriteOutputFormat, writeError)
		}
	}

	if flushError := bufferedWriter.Flush(); flushError != nil {
		return result, fmt.Errorf(errorWriteOutputFormat, flushError)
	}
	return result, nil
}

// countTokens never fails the aggregation: a counting error only drops the file from the total.
func (aggregator Aggregator) countTokens(logger *zap.Logger, filePath string, fileContent []byte) int {
	if aggregator.Counter == nil {
		return 0
	}
	countResult, countError := tokenizer.CountBytes(aggregator.Counter, fileContent)
	if countError != nil {
		logger.Warn("Token counting failed", zap.Error(fmt.Errorf(errorCountTokensFormat, filePath, countError)))
		return 0
	}
	if !countResult.Counted {
		logger.Debug("Skipped token counting for non-text file", zap.String("path", filePath))
		return 0
	}
	return countResult.Tokens
}

// AggregateToFile creates or truncates outputPath and aggregates filePaths into it. The file is
// closed on every path; a close error is returned when nothing else failed.
func (aggregator Aggregator) AggregateToFile(filePaths []string, outputPath string) (result Result, err error) {
	outputFile, createError := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFilePermission)
	if createError != nil {
		return Result{}, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil {
			err = errors.Join(err, fmt.Errorf(errorCloseOutputFormat, outputPath, closeError))
		}
	}()
	return aggregator.Aggregate(filePaths, outputFile)
}
