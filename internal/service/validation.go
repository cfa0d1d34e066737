package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every request; validator caches struct metadata
// and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateShape runs the struct tags of a villa input shape and converts
// failures into per-field messages.
func validateShape(in any) *Error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationFailed(map[string][]string{"": {err.Error()}})
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return validationFailed(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", fe.Field())
	case "max":
		return fmt.Sprintf("the %s field must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("the %s field must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("the %s field must be less than or equal to %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("the %s field failed %q", fe.Field(), fe.Tag())
}
