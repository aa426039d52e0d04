package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lojf/kidsdesk/internal/models"
)

var fieldTexts = map[string]string{
	"required": "this field is required",
	"number":   "must be a whole number",
	"max":      "is too long",
	"anydate":  "is not a date (use DD/MM/YYYY)",
	"datetime": "must be YYYY-MM-DD",
	"yesno":    "must be Yes or No",
	"chatpref": "must be No, Yes, in person or Yes, online",
	"phone":    "is not a phone number",
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("yesno", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == string(models.Yes) || s == string(models.No)
	})
	_ = v.RegisterValidation("chatpref", func(fl validator.FieldLevel) bool {
		switch models.ChatPreference(fl.Field().String()) {
		case models.ChatNo, models.ChatInPerson, models.ChatOnline:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("anydate", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseDate(fl.Field().String())
		return ok
	})
	return v
}

// check runs struct validation and turns failures into a KindValidation error.
func (s *Store) check(op string, c models.Child, extra ...FieldError) error {
	fields := append([]FieldError(nil), extra...)
	if err := s.validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &Error{Kind: KindValidation, Op: op, Name: c.Name, Err: err}
		}
		for _, fe := range verrs {
			msg, ok := fieldTexts[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Op: op, Name: c.Name, Fields: fields}
}
