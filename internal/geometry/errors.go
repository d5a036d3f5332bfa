package geometry

import "fmt"

// FailureKind tags the reason metric extraction failed.
type FailureKind string

const (
	// FailureEmpty means the file loaded but contained no measurable
	// geometry (zero vertices, no bounds). An empty mesh is an error
	// condition, not a degenerate metrics record.
	FailureEmpty FailureKind = "empty_geometry"

	// FailureUnsupported means the flattened result is not a triangulated
	// surface (point cloud, lines-only OBJ, unknown mesh format tag).
	FailureUnsupported FailureKind = "unsupported_geometry"

	// FailureParse means the bytes could not be read as the declared
	// format at all.
	FailureParse FailureKind = "parse_error"
)

// ExtractionError is the only error type the extractors return. It is a
// value the caller branches on; extraction never panics past its boundary.
type ExtractionError struct {
	Kind    FailureKind
	Message string
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func emptyErr(format string) *ExtractionError {
	return &ExtractionError{
		Kind:    FailureEmpty,
		Message: fmt.Sprintf("%s contains no geometry (0 vertices)", format),
	}
}

func unsupportedErr(format, detail string) *ExtractionError {
	return &ExtractionError{
		Kind:    FailureUnsupported,
		Message: fmt.Sprintf("unsupported %s content: %s", format, detail),
	}
}

func parseErr(format string, err error) *ExtractionError {
	return &ExtractionError{
		Kind:    FailureParse,
		Message: fmt.Sprintf("%s parsing failed: %v", format, err),
	}
}
