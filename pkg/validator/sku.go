package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	skuMinLength = 7
	skuMaxLength = 20
)

var (
	// Preferred shape: ABC-123.
	skuStrict = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)
	// Same shape, any letter case, optional hyphen.
	skuFlexible = regexp.MustCompile(`^[A-Za-z]{3}-?\d{3}$`)
	// Any alphanumeric-plus-hyphen code of 7 to 20 characters.
	skuGeneric = regexp.MustCompile(`^[A-Za-z0-9-]{7,20}$`)
)

// SKUResult reports whether a SKU passed validation and, if not, why.
type SKUResult struct {
	Valid   bool    `json:"valid"`
	Message *string `json:"message"`
}

func SKUValid() SKUResult {
	return SKUResult{Valid: true}
}

func SKUInvalid(format string, args ...interface{}) SKUResult {
	msg := fmt.Sprintf(format, args...)
	return SKUResult{Valid: false, Message: &msg}
}

// Reason returns the rejection message or an empty string.
func (r SKUResult) Reason() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

// ValidateSKUFormat checks the shape of a product code. An empty code is
// valid because the SKU is optional.
func ValidateSKUFormat(code string) SKUResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return SKUValid()
	}
	if len(code) < skuMinLength {
		return SKUInvalid("SKU must be at least %d characters long (got %d)", skuMinLength, len(code))
	}
	switch {
	case skuStrict.MatchString(code),
		skuFlexible.MatchString(code),
		skuGeneric.MatchString(code):
		return SKUValid()
	}
	return SKUInvalid("invalid SKU format: use letters, digits and hyphens (%d-%d characters)", skuMinLength, skuMaxLength)
}
