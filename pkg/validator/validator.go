package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatValidationError flattens binding errors into one user-facing
// message per failed field.
func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s majburiy", field)
	case "email":
		return fmt.Sprintf("%s yaroqli email bo'lishi kerak", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s kamida %s belgidan iborat bo'lishi kerak", field, fe.Param())
		}
		return fmt.Sprintf("%s kamida %s bo'lishi kerak", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s ko'pi bilan %s belgidan iborat bo'lishi kerak", field, fe.Param())
		}
		return fmt.Sprintf("%s ko'pi bilan %s bo'lishi kerak", field, fe.Param())
	default:
		return fmt.Sprintf("%s yaroqsiz", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":        "Username",
		"Password":        "Parol",
		"CurrentPassword": "Joriy parol",
		"NewPassword":     "Yangi parol",
		"Email":           "Email",
		"Title":           "Sarlavha",
		"Year":            "Yil",
		"Role":            "Rol",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
