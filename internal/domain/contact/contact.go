// Package contact validates the phone numbers and email addresses customers
// and admins type into forms.
package contact

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

// CleanPhone drops spaces, dashes and parentheses.
func CleanPhone(s string) string {
	return phoneNoise.Replace(strings.TrimSpace(s))
}

// ValidPhone accepts 10 to 15 digits with an optional leading plus.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(CleanPhone(s))
}

func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// ValidURL accepts absolute http and https URLs.
func ValidURL(s string) bool {
	return validate.Var(s, "required,http_url") == nil
}
