package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cadportal/internal/domain/admission"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = registerCustom(validate)
}

// RegisterGinValidators adds the portal's custom tags to gin's binding engine
// so `binding:"tier"` works on request DTOs.
func RegisterGinValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return registerCustom(v)
	}
	return nil
}

func registerCustom(v *validator.Validate) error {
	return v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return admission.Tier(fl.Field().String()).Valid()
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["_"] = err.Error()
		return errors
	}
	for _, err := range verrs {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// FieldErrors flattens a gin binding error into field -> tag pairs.
func FieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "invalid"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
