package aggregate

import (
	"fmt"

	"github.com/temirov/codecollector/internal/utils"
)

// FormatSummaryLine renders the result as a one-line summary such as
// "Summary: 3 files, 1.2kb, 420 tokens (model: gpt-4o)". Failed reads are appended when present.
func FormatSummaryLine(result Result) string {
	label := "files"
	if result.Processed == 1 {
		label = "file"
	}
	extra := ""
	if result.Tokens > 0 {
		extra = fmt.Sprintf(", %d tokens", result.Tokens)
	}
	modelSuffix := ""
	if result.Model != "" && result.Tokens > 0 {
		modelSuffix = fmt.Sprintf(" (model: %s)", result.Model)
	}
	failedSuffix := ""
	if result.Failed > 0 {
		failedSuffix = fmt.Sprintf(", %d unreadable", result.Failed)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s%s", result.Processed, label, utils.FormatByteCount(result.Bytes), extra, modelSuffix, failedSuffix)
}
