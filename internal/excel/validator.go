package excel

import (
	stderrors "errors"
	"fmt"

	"school-management-api/pkg/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()

	// Row field names match the sheet headers, so messages name the column.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	return &Validator{
		validate:   validate,
		translator: translator,
	}
}

// Validate checks a typed row against its struct tags and returns the first
// violation as a ValidationError.
func (v *Validator) Validate(row interface{}) error {
	err := v.validate.Struct(row)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return errors.ValidationError{
		Field:   fe.Field(),
		Value:   fe.Value(),
		Message: fe.Translate(v.translator),
	}
}

// Message renders a validation failure the way it is reported to uploaders.
func Message(err error) string {
	var ve errors.ValidationError
	if stderrors.As(err, &ve) {
		return fmt.Sprintf("%s (got %v)", ve.Message, ve.Value)
	}
	return err.Error()
}
