// Package validation holds the jellydator rules shared by request DTOs and use cases.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

// WrapValidationError marks a jellydator error as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CharClass is a named set of runes a password may be required to contain.
type CharClass struct {
	Name  string
	Match func(rune) bool
}

var (
	Upper  = CharClass{Name: "uppercase letter", Match: unicode.IsUpper}
	Lower  = CharClass{Name: "lowercase letter", Match: unicode.IsLower}
	Digit  = CharClass{Name: "number", Match: unicode.IsDigit}
	Symbol = CharClass{Name: "special character", Match: func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}}
)

// PasswordPolicy is a rule requiring a minimum length in runes and at least one rune
// of every class in Require.
type PasswordPolicy struct {
	MinLength int
	Require   []CharClass
}

// AccountPassword is the policy for parent, child and admin accounts.
var AccountPassword = PasswordPolicy{MinLength: 8, Require: []CharClass{Upper, Lower, Digit}}

// Validate implements validation.Rule. Empty values pass so Required decides about them.
func (p PasswordPolicy) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_type", "password must be a string")
	}
	if s == "" {
		return nil
	}

	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.MinLength),
		)
	}

	for _, class := range p.Require {
		if strings.IndexFunc(s, class.Match) < 0 {
			return validation.NewError(
				"validation_password_class",
				"password must contain at least one "+class.Name,
			)
		}
	}
	return nil
}

var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Username accepts letters, digits, dots, underscores and hyphens. It can never contain
// '@', so a login identifier is never both a username and an email.
var Username = validation.NewStringRuleWithError(
	usernameRegex.MatchString,
	validation.NewError("validation_username_format", "may only contain letters, digits, '.', '_' and '-'"),
)

// NotBlank rejects strings that are empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// PrintableText rejects control characters other than newline and tab, which keeps
// chat text safe to store and to forward to the language model.
var PrintableText = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.IndexFunc(s, func(r rune) bool {
			return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
		}) < 0
	},
	validation.NewError("validation_printable_text", "must not contain control characters"),
)
