package document

import "fmt"

// UnsupportedVersionError is returned when a payload declares a format
// version this build does not know. No best-effort parse is attempted.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported document version %q", e.Version)
}

// MalformedDocumentError is returned when a payload is structurally invalid.
// Index is the position of the offending object, or -1 when the failure is
// not attributable to a single object.
type MalformedDocumentError struct {
	Index  int
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.Index < 0 {
		return "malformed document: " + e.Reason
	}
	return fmt.Sprintf("malformed document: object %d: %s", e.Index, e.Reason)
}

// InvalidAttributesError is returned by session operations whose input
// violates a geometric or style constraint. The session is left unchanged.
type InvalidAttributesError struct {
	Reason string
}

func (e *InvalidAttributesError) Error() string {
	return "invalid attributes: " + e.Reason
}
