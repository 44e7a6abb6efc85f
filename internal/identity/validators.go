package identity

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var allowedUserName = regexp.MustCompile(`^[a-zA-Z0-9\-._@+]+$`)

// PasswordOptions mirrors the policy knobs of the password validator.
type PasswordOptions struct {
	RequiredLength         int
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
}

func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		RequiredLength:         6,
		RequireDigit:           true,
		RequireLowercase:       true,
		RequireUppercase:       true,
		RequireNonAlphanumeric: true,
	}
}

func userNameRules(userName string) []validation.Rule {
	invalid := validation.NewError(CodeInvalidUserName,
		"Username '{{.name}}' is invalid, can only contain letters or digits.").
		SetParams(map[string]any{"name": userName})

	return []validation.Rule{
		validation.Required.ErrorObject(invalid),
		validation.Match(allowedUserName).ErrorObject(invalid),
	}
}

func emailRules(email string) []validation.Rule {
	invalid := validation.NewError(CodeInvalidEmail, "Email '{{.email}}' is invalid.").
		SetParams(map[string]any{"email": email})

	return []validation.Rule{is.EmailFormat.ErrorObject(invalid)}
}

func passwordRules(o PasswordOptions) []validation.Rule {
	rules := []validation.Rule{
		validation.By(func(v any) error {
			if utf8.RuneCountInString(v.(string)) < o.RequiredLength {
				return validation.NewError(CodePasswordTooShort,
					"Passwords must be at least {{.min}} characters.").
					SetParams(map[string]any{"min": o.RequiredLength})
			}
			return nil
		}),
	}
	if o.RequireNonAlphanumeric {
		rules = append(rules, requireRune(func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}, validation.NewError(CodePasswordRequiresNonAlphanumeric,
			"Passwords must have at least one non alphanumeric character.")))
	}
	if o.RequireDigit {
		rules = append(rules, requireRune(func(r rune) bool { return r >= '0' && r <= '9' },
			validation.NewError(CodePasswordRequiresDigit,
				"Passwords must have at least one digit ('0'-'9').")))
	}
	if o.RequireLowercase {
		rules = append(rules, requireRune(func(r rune) bool { return r >= 'a' && r <= 'z' },
			validation.NewError(CodePasswordRequiresLower,
				"Passwords must have at least one lowercase ('a'-'z').")))
	}
	if o.RequireUppercase {
		rules = append(rules, requireRune(func(r rune) bool { return r >= 'A' && r <= 'Z' },
			validation.NewError(CodePasswordRequiresUpper,
				"Passwords must have at least one uppercase ('A'-'Z').")))
	}
	return rules
}

func requireRune(pred func(rune) bool, failure validation.Error) validation.Rule {
	return validation.By(func(v any) error {
		for _, r := range v.(string) {
			if pred(r) {
				return nil
			}
		}
		return failure
	})
}

// collect runs every rule on its own so that all failures are reported, not
// only the first one.
func collect(value string, rules []validation.Rule) []Error {
	var out []Error
	for _, rule := range rules {
		err := validation.Validate(value, rule)
		if err == nil {
			continue
		}
		var ve validation.Error
		if errors.As(err, &ve) {
			out = append(out, Error{Code: ve.Code(), Description: ve.Error()})
			continue
		}
		out = append(out, Error{Code: CodeDefault, Description: err.Error()})
	}
	return out
}
