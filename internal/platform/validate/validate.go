package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator valida DTOs de request con tags `validate:"..."` y traduce
// el primer error a un mensaje legible para el cliente.
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register validator translations: %w", err)
	}

	return &Validator{v: v, trans: trans}, nil
}

// MustNew es para wiring en router/tests, donde un fallo aquí es un bug.
func MustNew() *Validator {
	val, err := New()
	if err != nil {
		panic(err)
	}
	return val
}

// Struct devuelve nil o un error cuyo mensaje ya está traducido.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		// Solo el primero: mensajes más claros para el usuario.
		return errors.New(verrs[0].Translate(val.trans))
	}
	return err
}
