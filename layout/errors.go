package layout

import "fmt"

// DegeneracyError reports that a derived quantity came out non-finite
// or otherwise unusable, so the layout cannot proceed. It indicates a
// malformed seed or color database rather than a programming error.
type DegeneracyError struct {
	Stage string
	Value float64
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("layout: degenerate value %v in %s", e.Value, e.Stage)
}
