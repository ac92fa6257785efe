package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct проверяет теги validate и возвращает ошибки по полям
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	result := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			result[fe.Field()] = errorMessage(fe)
		}
		return result
	}

	result["body"] = err.Error()
	return result
}

// errorMessage человекочитаемое описание нарушенного правила
func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "gt":
		return fmt.Sprintf("должно быть больше %s", fe.Param())
	case "min":
		return fmt.Sprintf("минимум %s", fe.Param())
	case "max":
		return fmt.Sprintf("максимум %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("ожидается формат %s", fe.Param())
	default:
		return fmt.Sprintf("некорректное значение поля %s", fe.Field())
	}
}

// FormatValidationErrors объединяет ошибки полей в одну строку (в порядке имён полей)
func FormatValidationErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errs[field]))
	}
	return strings.Join(msgs, "; ")
}
