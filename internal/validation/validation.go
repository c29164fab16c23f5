package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	notBlankTag     = "notblank"
	trimmedEmailTag = "trimmed_email"
)

var (
	translator ut.Translator
	initOnce   sync.Once
)

// Init configures gin's validator: JSON field names in errors, English
// messages, and the custom tags used by request models. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, translator)

		// Use JSON tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation(notBlankTag, notBlank)
		_ = validate.RegisterValidation(trimmedEmailTag, func(fl validator.FieldLevel) bool {
			str, ok := fl.Field().Interface().(string)
			return ok && validate.Var(strings.TrimSpace(str), "email") == nil
		})

		// Default translations are already registered, so the register func is a noop.
		noop := func(ut.Translator) error { return nil }
		_ = validate.RegisterTranslation(notBlankTag, translator, noop, translateCustom)
		_ = validate.RegisterTranslation(trimmedEmailTag, translator, noop, translateCustom)
	})
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case trimmedEmailTag:
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Error()
	}
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// Translate turns a binding error into a summary message and per-field
// messages keyed by JSON path (e.g. "data.email"). ok is false when err is
// not a validation error, e.g. malformed JSON.
func Translate(err error) (message string, fields map[string]string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "", nil, false
	}

	fields = make(map[string]string, len(verrs))
	var msgs []string
	for _, fe := range verrs {
		msg := fe.Error()
		if translator != nil {
			msg = fe.Translate(translator)
		}
		fields[fieldPath(fe.Namespace())] = msg
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; "), fields, true
}

// fieldPath drops the root struct name: "CreateTourRequest.data.phone" -> "data.phone".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// OnlyMalformedEmail reports whether every failure in err is an email format
// failure, as opposed to missing or mis-shaped fields.
func OnlyMalformedEmail(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() != trimmedEmailTag {
			return false
		}
	}
	return true
}
