package spectra

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseReference converts user-entered text into a reference value.
// Blank text means "not measured" and yields nil.
func ParseReference(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReference, text)
	}
	return &v, nil
}

// FormatReference renders v with four decimals, or "" when v is nil.
func FormatReference(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
