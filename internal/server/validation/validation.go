// Package validation checks service inputs with go-playground/validator and
// reports failures as *common.ValidationError keyed by JSON field names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/go-playground/validator/v10"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
			return models.Stage(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("msgstatus", func(fl validator.FieldLevel) bool {
			return models.MessageStatus(fl.Field().String()).Valid()
		})
		instance = v
	})
	return instance
}

// IsSlug reports whether s is a lower-case, dash-separated slug.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// Struct validates v. It returns nil, a *common.ValidationError, or the
// validator's own error for programming mistakes such as a non-struct value.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &common.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fieldName(fe), message(fe))
	}
	return ve
}

// fieldName drops the root struct name from the namespace:
// "settingsInput.socials.github" becomes "socials.github".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must contain at most %s items", fe.Param())
	case "hexcolor":
		return "must be a hex color such as #88aa00"
	case "slug":
		return "must contain only lowercase letters, digits and single dashes"
	case "stage":
		return "must be one of STAGE_1, STAGE_2, STAGE_3"
	case "msgstatus":
		return "must be new or read"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
