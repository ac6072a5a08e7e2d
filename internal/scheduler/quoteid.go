package scheduler

import (
	"strings"

	"github.com/google/uuid"
)

// CanonicalQuoteID normalizes a quote identifier before it is used in a set
// membership test or written to a delivery record. The same logical id can
// surface in different shapes (raw id column, embedded reference); canonical
// form is the lowercase uuid string. Returns false for anything that is not
// a well-formed uuid.
func CanonicalQuoteID(raw string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
