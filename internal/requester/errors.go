package requester

import "fmt"

// MissingPathParameterError reports a path placeholder with no matching
// argument. Raised before any network I/O happens.
type MissingPathParameterError struct {
	Name string
}

func (e *MissingPathParameterError) Error() string {
	return fmt.Sprintf("missing required path parameter: %s", e.Name)
}
