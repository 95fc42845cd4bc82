package gcode

import (
	"errors"
	"fmt"
)

// ErrNotNumeric is returned by ValidateNumber for anything but decimal digits.
var ErrNotNumeric = errors.New("value must contain only decimal digits")

// ValidateNumber checks user-entered layer or speed text. The text is used
// verbatim afterwards, so nothing is trimmed and leading zeros are kept.
// Signs, spaces and fractions are rejected; length is not limited.
func ValidateNumber(text string) error {
	if text == "" {
		return fmt.Errorf("%w: empty", ErrNotNumeric)
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return fmt.Errorf("%w: %q", ErrNotNumeric, text)
		}
	}
	return nil
}
