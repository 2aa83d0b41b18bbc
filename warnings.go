package pagelayout

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal extraction issue
type WarningKind int

const (
	// WarnUnmatchedFragments means some OCR fragments fell outside every region
	WarnUnmatchedFragments WarningKind = iota
	// WarnReorderSkipped means the page exceeded the scorer's box limit
	WarnReorderSkipped
	// WarnReorderFailed means the scorer failed and the geometric order was kept
	WarnReorderFailed
	// WarnCapabilityUnavailable means a table or formula recognizer could not run
	WarnCapabilityUnavailable
	// WarnNoDetector means the whole page was treated as one text region
	WarnNoDetector
)

// String returns a string representation of the warning kind
func (k WarningKind) String() string {
	switch k {
	case WarnUnmatchedFragments:
		return "unmatched-fragments"
	case WarnReorderSkipped:
		return "reorder-skipped"
	case WarnReorderFailed:
		return "reorder-failed"
	case WarnCapabilityUnavailable:
		return "capability-unavailable"
	case WarnNoDetector:
		return "no-detector"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue encountered during extraction
type Warning struct {
	Kind    WarningKind
	Message string
}

// String returns the warning as "kind: message"
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings joins warnings into one line each
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
