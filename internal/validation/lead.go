package validation

import (
	"errors"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{10,15}$`)
)

// ContactForm содержит поля формы обратной связи.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	PlanID  string `json:"planId"`
}

// Normalize обрезает пробелы по краям полей.
func (f *ContactForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
	f.PlanID = strings.TrimSpace(f.PlanID)
}

// Validate проверяет обязательные поля и формат email.
func (f ContactForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.Name, ozzo.Required),
		ozzo.Field(&f.Email, ozzo.Required, ozzo.Match(emailPattern)),
		ozzo.Field(&f.Message, ozzo.Required),
	)
}

// GetStartedForm содержит поля заявки на тарифный план.
type GetStartedForm struct {
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	Requirements string `json:"requirements"`
	PlanID       string `json:"planId"`
}

// Normalize обрезает пробелы по краям полей.
func (f *GetStartedForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.Email = strings.TrimSpace(f.Email)
	f.Requirements = strings.TrimSpace(f.Requirements)
	f.PlanID = strings.TrimSpace(f.PlanID)
}

// Validate проверяет обязательные поля, формат email и номера телефона.
func (f GetStartedForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.Name, ozzo.Required),
		ozzo.Field(&f.Mobile, ozzo.Required, ozzo.Match(phonePattern)),
		ozzo.Field(&f.Email, ozzo.Required, ozzo.Match(emailPattern)),
		ozzo.Field(&f.Requirements, ozzo.Required),
		ozzo.Field(&f.PlanID, ozzo.Required),
	)
}

// FieldErrors возвращает ошибки по полям, если err получена из Validate.
func FieldErrors(err error) (ozzo.Errors, bool) {
	var errs ozzo.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
