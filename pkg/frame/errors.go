package frame

import "fmt"

// FormatError reports malformed tabular content: inconsistent row lengths at
// load time or a value that refuses numeric coercion during repair. Column
// and Value identify the offending cell so nothing is dropped silently.
type FormatError struct {
	Column string
	Row    int // 1-based data row, 0 when not row-specific
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Column != "" && e.Value != "":
		return fmt.Sprintf("frame: column %q: %s (value %q)", e.Column, e.Reason, e.Value)
	case e.Row > 0:
		return fmt.Sprintf("frame: row %d: %s", e.Row, e.Reason)
	default:
		return "frame: " + e.Reason
	}
}
