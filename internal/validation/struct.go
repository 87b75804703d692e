package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"nightlife/internal/models"

	"github.com/go-playground/validator/v10"
)

var pseudonymRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = instance.RegisterValidation("pseudonym", func(fl validator.FieldLevel) bool {
			return pseudonymRegex.MatchString(fl.Field().String())
		})
	})
	return instance
}

// Struct validates a request DTO against its `validate` tags. Failures come
// back as a validation AppError listing each offending field.
func Struct(v any) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		names = append(names, fe.Field())
	}
	return models.NewValidationError("Invalid fields: "+strings.Join(names, ", ")).
		WithContext("fields", fields)
}
