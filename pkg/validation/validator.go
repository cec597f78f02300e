package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Account passwords must carry at least 6 characters.
		v.RegisterAlias("pwd", "min=6")
	}
}

// Messages converts validation/binding errors into the list of human-readable
// rule violations the API returns; every failed rule contributes one message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	// Malformed JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.EOF) {
		return []string{"Invalid JSON payload"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldLabel(fe)+" "+ruleMessage(fe))
		}
		return out
	}

	return []string{"Invalid payload"}
}

func fieldLabel(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "Field"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func ruleMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "pwd":
		return "must be at least 6 characters long"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters long"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters long"
		}
		return "must be at most " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "url":
		return "must be a valid URL"
	case "number", "numeric":
		return "must be a number"
	case "alphanum":
		return "must contain alphanumeric characters only"
	default:
		if param != "" {
			return "failed the '" + tag + "=" + param + "' rule"
		}
		return "failed the '" + tag + "' rule"
	}
}
