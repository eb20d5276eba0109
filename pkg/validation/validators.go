package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// local@domain.tld: no whitespace, exactly one @, at least one dot in the domain part
	tldEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)
)

// RegisterValidators registers custom validators to the validator instance and
// makes validation errors report JSON field names instead of Go field names.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("tld_email", TLDEmail)
	_ = v.RegisterValidation("accepted", Accepted)
}

// New returns a validator configured with RegisterValidators.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// TLDEmail requires the address to carry a dotted domain (local@domain.tld)
func TLDEmail(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return tldEmailRegex.MatchString(val)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Accepted requires a boolean field to be exactly true
func Accepted(fl validator.FieldLevel) bool {
	field := fl.Field()
	return field.Kind() == reflect.Bool && field.Bool()
}
