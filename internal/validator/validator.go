package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agendadigital/forms-service/internal/models"
)

// Validator validates form submissions against their schema rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// report errors against the wire field names, not Go struct fields
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerFormRules()

	return v
}

// Validate validates a struct and returns field-level errors, or nil when the
// struct passes.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// registerFormRules registers the custom rules the form schemas use.
func (v *Validator) registerFormRules() {
	// tipo_ocorrencia must come from the fixed category list
	_ = v.validate.RegisterValidation("occurrence_type", func(fl validator.FieldLevel) bool {
		return models.IsValidOccurrenceType(fl.Field().String())
	})
}
