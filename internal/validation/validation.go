// Package validation checks request DTOs against their struct-tag schemas and
// reports failures as field-level messages the UI can attach to form inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
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
		// PATCH fields wrapped in dto.Optional validate as their inner value.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if o, ok := field.Interface().(interface{ Validatable() any }); ok {
				return o.Validatable()
			}
			return nil
		}, dto.Optional[int]{}, dto.Optional[time.Time]{})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			_, ok := models.ParsePriority(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("emotion", func(fl validator.FieldLevel) bool {
			return models.Emotion(strings.ToUpper(fl.Field().String())).Valid()
		})
		_ = v.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
			return models.ProjectStatus(strings.ToUpper(fl.Field().String())).Valid()
		})
		_ = v.RegisterValidation("recurrence", func(fl validator.FieldLevel) bool {
			return models.Recurrence(strings.ToUpper(fl.Field().String())).Valid()
		})
		validate = v
	})
	return validate
}

// Fields validates v and returns one message per failing field, or nil.
func Fields(v any) []apperr.FieldError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperr.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperr.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return out
}

// Check is Fields wrapped as a BadRequest error.
func Check(v any) error {
	if fields := Fields(v); len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace, keeping
// nested paths such as "taskIds[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "notblank":
		return name + " must not be blank"
	case "email":
		return name + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "hexcolor":
		return name + " must be a hex color such as #3b82f6"
	case "url":
		return name + " must be a valid URL"
	case "uuid", "uuid4":
		return name + " must be a valid id"
	case "priority":
		return name + " must be one of NONE, LOW, MEDIUM, HIGH, URGENT"
	case "emotion":
		return name + " must be one of NEUTRAL, HAPPY, EXCITED, CALM, TIRED, STRESSED, ANXIOUS, SAD"
	case "project_status":
		return name + " must be one of ACTIVE, COMPLETED, ARCHIVED"
	case "recurrence":
		return name + " must be one of NONE, DAILY, WEEKLY, MONTHLY, YEARLY"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}
