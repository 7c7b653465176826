package identity

import (
	"unicode/utf8"

	"booktracker/internal/validation"
)

const (
	minPasswordLength = 8
	maxNameLength     = 50
)

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the sign-in form rules.
func (c Credentials) Validate() error {
	verrs := validation.Errors{}
	if verrs.Required("email", c.Email, "Email is required") && !validation.IsEmail(c.Email) {
		verrs["email"] = "Invalid email format"
	}
	if verrs.Required("password", c.Password, "Password is required") && utf8.RuneCountInString(c.Password) < minPasswordLength {
		verrs["password"] = "Password must be at least 8 characters long"
	}
	return verrs.Err()
}

// Registration is the sign-up form. Name and phone are collected but only
// the email and password are sent to the provider.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Validate applies the sign-up form rules.
func (r Registration) Validate() error {
	verrs := validation.Errors{}
	if verrs.Required("name", r.Name, "Name is required") && utf8.RuneCountInString(r.Name) > maxNameLength {
		verrs["name"] = "Max length exceeded"
	}
	verrs.Required("phone", r.Phone, "Phone number is required")
	if err := (Credentials{Email: r.Email, Password: r.Password}).Validate(); err != nil {
		for k, v := range err.(validation.Errors) {
			verrs[k] = v
		}
	}
	return verrs.Err()
}
