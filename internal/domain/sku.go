package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SKUPattern is the documented shape of a spare-part SKU: exactly four
// dash-separated non-empty components.
const SKUPattern = "[CLASS]-[MATERIAL]-[SIZE]-[LENGTH]"

// ErrEmptySKUComponent is returned when a SKU has the right number of
// components but one of them is blank (e.g. "A--M10-50").
var ErrEmptySKUComponent = errors.New("all SKU components must be non-empty")

// ValidateSKU checks that sku matches SKUPattern. The two failure modes get
// distinct messages so callers can surface exactly what is wrong.
func ValidateSKU(sku string) error {
	parts := strings.Split(sku, "-")
	if len(parts) != 4 {
		return fmt.Errorf("invalid SKU format: expected %s, got %q", SKUPattern, sku)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return ErrEmptySKUComponent
		}
	}
	return nil
}
