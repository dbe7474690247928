package gatedchat

import (
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/putto11262002/gatedchat/core"
)

var validate *validator.Validate
var uniTrans *ut.UniversalTranslator

func init() {

	validate = validator.New()
	en := en.New()
	uniTrans = ut.New(en, en)
	enTrans, _ := uniTrans.GetTranslator("en")

	// use the json name of the field, or the lowercased field name if there is none
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return strings.ToLower(field.Name)
		}
		return name
	})

	validate.RegisterTranslation("required", enTrans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	validate.RegisterTranslation("oneof", enTrans, func(ut ut.Translator) error {
		return ut.Add("oneof", "{0} must be one of [{1}]", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("oneof", fe.Field(), fe.Param())
		return t
	})

	validate.RegisterTranslation("gt", enTrans, func(ut ut.Translator) error {
		return ut.Add("gt", "{0} must be greater than {1}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("gt", fe.Field(), fe.Param())
		return t
	})

	validate.RegisterValidation("port", func(fl validator.FieldLevel) bool {
		port, ok := fl.Field().Interface().(int)
		if !ok {
			return false
		}
		return port > 0 && port <= 65535
	})

	validate.RegisterTranslation("port", enTrans, func(ut ut.Translator) error {
		return ut.Add("port", "{0} must be a valid port number", true)

	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("port", fe.Field())
		return t
	})

	validate.RegisterValidation("themecolor", func(fl validator.FieldLevel) bool {
		color, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return core.IsThemeColor(strings.TrimSpace(color))
	})

	validate.RegisterTranslation("themecolor", enTrans, func(ut ut.Translator) error {
		return ut.Add("themecolor", "{0} must be a HEX color like #101a2c", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("themecolor", fe.Field())
		return t
	})

	validate.RegisterTranslation("unique", enTrans, func(ut ut.Translator) error {
		return ut.Add("unique", "{0} must not contain duplicates", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("unique", fe.Field())
		return t
	})
}

// FormatValidationErrors translates validation errors into one line per failed field.
// Lines are sorted so the output is stable.
func FormatValidationErrors(err error) string {
	errors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ""
	}
	trans, _ := uniTrans.GetTranslator("en")
	translated := errors.Translate(trans)

	lines := make([]string, 0, len(translated))
	for _, v := range translated {
		lines = append(lines, v)
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}
