package common

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAndDecode decodes the request body into payload and runs struct tag
// validation. Returns a validation AppError when either step fails.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(KindValidation, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return NewAppError(KindValidation, validationErrors.Error(), err)
	}

	return nil
}

// ValidateStruct runs tag validation on an already-decoded value, used for
// nested detail payloads.
func ValidateStruct(payload interface{}) error {
	return validate.Struct(payload)
}
