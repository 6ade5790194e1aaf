// Package forms defines the HTML forms and their validator chains.
//
// Each field lists its checks in its validate tag. Checks run left to right
// and stop at the first failure for that field; every field is checked and
// all failures are returned together.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegistrationForm is submitted by POST /register.
type RegistrationForm struct {
	Username        string `form:"username" validate:"required,min=2,max=20"`
	Email           string `form:"email" validate:"required,email,max=120"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginForm is submitted by POST /login.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SectionForm is submitted by POST /add_section and /edit_section/:id.
type SectionForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}

// Errors maps form field names to a message.
type Errors map[string]string

// Validator checks forms against their validate tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator that reports errors by form field name.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns nil when form passes every check.
func (fv *Validator) Validate(form any) Errors {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Errors{"_form": err.Error()}
	}

	fieldErrors := make(Errors, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}
	return fieldErrors
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", e.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", e.Param())
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", strings.ToLower(e.Param()))
	default:
		return "Invalid value."
	}
}

// Normalize trims surrounding whitespace from the text fields. Passwords
// are left untouched.
func (f *RegistrationForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// Normalize trims surrounding whitespace from the email.
func (f *LoginForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// Normalize trims surrounding whitespace from the title and content.
func (f *SectionForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
}
