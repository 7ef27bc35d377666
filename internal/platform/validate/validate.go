// Package validate wraps go-playground/validator with english translations
// and the input rules shared by the CLI and HTTP adapters.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	apperrors "studyplan/internal/platform/errors"
)

const (
	NotBlankTag = "notblank"
	ClockTag    = "hhmm"
	DateTag     = "isodate"

	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

type Validator struct {
	engine     *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")
	engine := validator.New()
	_ = en_translations.RegisterDefaultTranslations(engine, translator)

	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{engine: engine, translator: translator}
	v.RegisterRule(NotBlankTag, "{0} must not be blank", notBlank)
	v.RegisterRule(ClockTag, "{0} must be a time formatted as HH:mm", layout(ClockLayout))
	v.RegisterRule(DateTag, "{0} must be a date formatted as YYYY-MM-DD", layout(DateLayout))
	v.RegisterTranslation("required", "{0} is required")
	return v
}

// RegisterRule adds a field-level rule and its message.
func (v *Validator) RegisterRule(tag, text string, fn validator.Func) {
	_ = v.engine.RegisterValidation(tag, fn)
	v.RegisterTranslation(tag, text)
}

// RegisterStructRule adds a cross-field rule for the given struct types.
func (v *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...any) {
	v.engine.RegisterStructValidation(fn, types...)
}

func (v *Validator) RegisterTranslation(tag, text string) {
	_ = v.engine.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s and converts rule failures into an apperrors.ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.engine.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.translator),
		})
	}
	return apperrors.NewValidationError(apperrors.ErrInvalidInput, fields...)
}

// fieldPath drops the root struct name from the namespace, keeping list indexes.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func layout(l string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(l, fl.Field().String())
		return err == nil
	}
}
