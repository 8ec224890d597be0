// Package validation wraps go-playground/validator and turns its field errors
// into one human readable message per field.
//
// Field names in messages come from the `label` struct tag, falling back to the
// json name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
)

var (
	v    *validator.Validate
	once sync.Once
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s and returns an *apperr.Error of kind Validation listing
// every offending field, or nil.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, Message(fe))
	}
	return apperr.Validation(messages...)
}

// Message renders a single field error.
func Message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter pelo menos %s caracteres", label, fe.Param())
		}
		if fe.Param() == "0" {
			return fmt.Sprintf("%s não pode ser negativo", label)
		}
		return fmt.Sprintf("%s deve ser no mínimo %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s inválido: %v (permitidos: %s)", label, fe.Value(), strings.ReplaceAll(fe.Param(), "'", ""))
	case "email":
		return "Por favor, insira um email válido"
	default:
		return fmt.Sprintf("%s inválido", label)
	}
}
