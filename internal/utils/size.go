package utils

import "strconv"

const byteUnitStep = 1024

// byteUnits are the size suffixes of the summary line, each byteUnitStep times the previous.
var byteUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatByteCount renders the total size of the aggregated files: whole bytes below 1kb, one
// decimal below ten of a unit ("1.5kb") and whole units above ("10mb"). Negative counts render as "0b".
func FormatByteCount(byteCount int64) string {
	if byteCount < byteUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + byteUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= byteUnitStep && unitIndex < len(byteUnits)-1 {
		scaled /= byteUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	rendered := strconv.FormatFloat(scaled, 'f', precision, 64)
	if precision == 1 && rendered[len(rendered)-1] == '0' {
		rendered = rendered[:len(rendered)-2]
	}
	return rendered + byteUnits[unitIndex]
}
