// This file contains the validator implementation for download requests.
//
// You can implement custom validators for each field in this file and reference them in the request structs.

package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
)

// ErrInvalidRequest wraps every validation failure, so callers can tell usage errors apart.
var ErrInvalidRequest = errors.New("invalid request")

var validate *validator.Validate

// Initialize the custom validator
func init() {
	validate = validator.New()
	validate.RegisterValidation("sampleScene", validateSampleScene)
}

// ValidateRequest validates a download request.
// Returns an error wrapping ErrInvalidRequest with a readable reason for each failed field.
func ValidateRequest(req *DownloadRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			reasons = append(reasons, fmt.Sprintf("%s is required", fe.Field()))
		case "sampleScene":
			reasons = append(reasons, fmt.Sprintf("invalid choice %q for name (choose from %s)",
				fe.Value(), strings.Join(scene.AllScenes(), ", ")))
		default:
			reasons = append(reasons, fe.Error())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(reasons, "; "))
}

// validateSampleScene is a custom validator for scene names in a DownloadRequest.
func validateSampleScene(fl validator.FieldLevel) bool {
	return scene.IsKnownScene(fl.Field().String())
}
