package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is one field-level problem in a payload.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload, in struct
// field order, so callers can show all problems at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var phoneRe = regexp.MustCompile(`^\d{10}$`)

var engine = func() *validator.Validate {
	v := validator.New()
	// Report json tag names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// trimmin=N: required with trimmed length >= N.
	v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) >= min
	})
	// phone10: exactly ten digits.
	v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return v
}()

// Struct validates s against its `validate` tags and returns every violation
// found. The message for each field comes from the struct's `errmsg:"tag=..."`
// pairs; fields without one get a generic message.
func Struct(s interface{}) []Violation {
	err := engine.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{Field: "", Message: err.Error()}}
	}
	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:   fe.Field(),
			Message: messageFor(s, fe),
		})
	}
	return violations
}

// StructError wraps Struct, returning a *ValidationError or nil.
func StructError(s interface{}) error {
	if violations := Struct(s); violations != nil {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func messageFor(s interface{}, fe validator.FieldError) string {
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		for _, pair := range strings.Split(f.Tag.Get("errmsg"), "|") {
			tag, msg, found := strings.Cut(pair, "=")
			if found && tag == fe.Tag() {
				return msg
			}
		}
		// A single message without a tag prefix applies to every rule.
		if msg := f.Tag.Get("errmsg"); msg != "" && !strings.Contains(msg, "=") {
			return msg
		}
	}
	return fmt.Sprintf("%s failed validation on '%s'", fe.Field(), fe.Tag())
}
