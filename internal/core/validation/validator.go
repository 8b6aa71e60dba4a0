package validation

import (
	"brickvault/internal/core/port"

	"github.com/gabriel-vasile/mimetype"
)

// Validator implements port.ContentValidator with pure, deterministic checks.
type Validator struct{}

// NewValidator creates a new content validator
func NewValidator() port.ContentValidator {
	return &Validator{}
}

// ValidateMagicBytes sniffs the leading bytes of a file and reports whether
// the detected content type matches the expected MIME type. The declared
// metadata is never trusted; only the bytes decide.
func (v *Validator) ValidateMagicBytes(data []byte, expectedMime string) bool {
	if len(data) == 0 {
		return false
	}

	detected := mimetype.Detect(data)

	// Walk the detection hierarchy so e.g. a CSV detected as text/plain
	// still matches a textual expectation.
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(expectedMime) {
			return true
		}
	}
	return false
}
