package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Form inputs for the full-page create/edit screens. The label tag names
// the field in user-facing messages.
type (
	categoryForm struct {
		Name        string `label:"Name" validate:"required,max=200"`
		Description string `label:"Description" validate:"max=2000"`
	}

	bookForm struct {
		Name        string `label:"Name" validate:"required,max=200"`
		Description string `label:"Description" validate:"max=2000"`
		CategoryID  int64  `label:"Category" validate:"required,gt=0"`
	}

	chapterForm struct {
		Name        string `label:"Name" validate:"required,max=200"`
		Description string `label:"Description" validate:"max=2000"`
		Order       int
	}

	sheetForm struct {
		Name  string `label:"Name" validate:"required,max=200"`
		Order int
	}
)

// formValidator checks form structs and renders the first failure as an
// English sentence.
type formValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newFormValidator() *formValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	// Registration only fails on a malformed built-in translation.
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	return &formValidator{validate: validate, trans: trans}
}

// check returns "" when form is valid, otherwise the first error message.
func (v *formValidator) check(form any) string {
	err := v.validate.Struct(form)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Translate(v.trans) + "."
	}
	return err.Error()
}

// parseOrder reads an integer order field, falling back when the value is
// missing or not a number.
func parseOrder(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

// parseID reads a positive integer identifier, returning 0 when invalid.
func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
