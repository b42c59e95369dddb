package services

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"games_hub/utils"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey holds errors that concern the whole submission.
const NonFieldKey = "non_field_errors"

// ValidationErrors maps a field name (or NonFieldKey) to its messages.
type ValidationErrors map[string][]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(v[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Has reports whether field has at least one error.
func (v ValidationErrors) Has(field string) bool {
	return len(v[field]) > 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "email_domain", emailDomain)
	mustRegister(v, "game_link", gameLink)
	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || utils.IsSlug(s)
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// emailDomain tightens the validator's email grammar: no whitespace anywhere
// and a dotted domain.
func emailDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}

	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return false
	}

	domain := s[at+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}

// gameLink accepts absolute http(s) URLs and site-relative paths.
func gameLink(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// collect runs struct validation and turns validator errors into
// user-facing messages. labels maps a form field to its display name.
func collect(s any, labels map[string]string, nonField map[string]string) ValidationErrors {
	errs := ValidationErrors{}

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add(NonFieldKey, err.Error())
		return errs
	}

	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := nonField[field]; ok {
			errs.Add(NonFieldKey, msg)
			continue
		}
		errs.Add(field, message(fe, labels[field]))
	}

	return errs
}

func message(fe validator.FieldError, label string) string {
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email", "email_domain":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "game_link":
		return "Enter a valid URL or a path starting with /."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
