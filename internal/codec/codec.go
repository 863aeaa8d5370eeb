// Package codec reads and writes the textual network-description formats:
// the sectioned INP format, a bare coordinate list, a JSON interchange
// form, and the YAML calibration registry.
package codec

import (
	"fmt"
	"io"

	"waterworks/internal/domain"
)

// Importer parses a complete network from a wire format.
type Importer interface {
	Parse(r io.Reader) (*domain.Network, error)
	Format() string
}

// Exporter writes a complete network to a wire format.
type Exporter interface {
	Export(net *domain.Network, w io.Writer) error
	Format() string
}

// LineError is one malformed line encountered during a tolerant import.
// The import continues past it; callers report the batch at the end.
type LineError struct {
	Section string
	Line    string
	Err     error
}

func (e LineError) Error() string {
	return fmt.Sprintf("[%s] %q: %v", e.Section, e.Line, e.Err)
}

// ImportReport collects the non-fatal findings of one import.
type ImportReport struct {
	Errors []LineError
}

func (r *ImportReport) add(section, line string, err error) {
	r.Errors = append(r.Errors, LineError{Section: section, Line: line, Err: err})
}

// OK reports whether the import completed without line errors.
func (r *ImportReport) OK() bool { return len(r.Errors) == 0 }
