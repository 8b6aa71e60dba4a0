package port

import "brickvault/internal/core/domain"

// ContentValidator is an interface to define pure content validation of
// uploaded files.
type ContentValidator interface {
	// ValidateMagicBytes reports whether the leading bytes of a file match
	// the expected MIME type.
	ValidateMagicBytes(data []byte, expectedMime string) bool
	// ValidatePartsList parses a tabular parts-list file and returns per-row
	// errors, warnings and the total piece count.
	ValidatePartsList(data []byte, filename string, mimeType string) domain.PartsListReport
}
