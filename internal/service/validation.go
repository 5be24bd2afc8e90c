package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
)

// validationError converts validator output into a ValidationFailed error with one detail per rule.
func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Validation(message, err.Error())
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "min", "gte":
			details = append(details, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			details = append(details, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return appErrors.Validation(message, details...)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
