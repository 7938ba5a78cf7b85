// Package forms declares the structural validators for the three HTML forms.
// Validation here is purely syntactic: nothing in this package touches
// storage. Uniqueness checks (duplicate email, duplicate cafe) belong to
// the services.
package forms

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Errors maps a form field name to a human-readable validation message
type Errors map[string]string

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validEmail reports whether s looks like a well-formed email address
func validEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// validURL reports whether s is an absolute http(s) URL
func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// checkbox converts an HTML checkbox value ("on" when ticked, absent otherwise)
func checkbox(r *http.Request, field string) bool {
	return r.PostFormValue(field) != ""
}

// RegisterForm carries the sign-up form fields
type RegisterForm struct {
	Email    string
	Password string
	Name     string
}

// ParseRegisterForm extracts and normalizes the sign-up fields from the request
func ParseRegisterForm(r *http.Request) *RegisterForm {
	return &RegisterForm{
		Email:    strings.TrimSpace(strings.ToLower(r.PostFormValue("email"))),
		Password: r.PostFormValue("password"),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
	}
}

// Validate checks the structural constraints and returns field-level errors
func (f *RegisterForm) Validate() Errors {
	errs := Errors{}

	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if !validEmail(f.Email) {
		errs["email"] = "Enter a valid email address."
	}

	if f.Password == "" {
		errs["password"] = "Password is required."
	}

	if f.Name == "" {
		errs["name"] = "Name is required."
	}

	return errs
}

// LoginForm carries the log-in form fields
type LoginForm struct {
	Email    string
	Password string
}

// ParseLoginForm extracts and normalizes the log-in fields from the request
func ParseLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Email:    strings.TrimSpace(strings.ToLower(r.PostFormValue("email"))),
		Password: r.PostFormValue("password"),
	}
}

// Validate checks the structural constraints and returns field-level errors
func (f *LoginForm) Validate() Errors {
	errs := Errors{}

	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if !validEmail(f.Email) {
		errs["email"] = "Enter a valid email address."
	}

	if f.Password == "" {
		errs["password"] = "Password is required."
	}

	return errs
}

// AddCafeForm carries the add-cafe form fields.
// Seats is optional free text; the four amenity flags default to false.
type AddCafeForm struct {
	Name         string
	MapURL       string
	ImgURL       string
	Location     string
	Seats        string
	HasWifi      bool
	HasSockets   bool
	HasToilet    bool
	CanTakeCalls bool
	CoffeePrice  string
}

// ParseAddCafeForm extracts and normalizes the add-cafe fields from the request
func ParseAddCafeForm(r *http.Request) *AddCafeForm {
	return &AddCafeForm{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		MapURL:       strings.TrimSpace(r.PostFormValue("map_url")),
		ImgURL:       strings.TrimSpace(r.PostFormValue("img_url")),
		Location:     strings.TrimSpace(r.PostFormValue("location")),
		Seats:        strings.TrimSpace(r.PostFormValue("seats")),
		HasWifi:      checkbox(r, "has_wifi"),
		HasSockets:   checkbox(r, "has_sockets"),
		HasToilet:    checkbox(r, "has_toilet"),
		CanTakeCalls: checkbox(r, "can_take_calls"),
		CoffeePrice:  strings.TrimSpace(r.PostFormValue("coffee_price")),
	}
}

// Validate checks the structural constraints and returns field-level errors
func (f *AddCafeForm) Validate() Errors {
	errs := Errors{}

	if f.Name == "" {
		errs["name"] = "Name is required."
	}

	if f.MapURL == "" {
		errs["map_url"] = "Map URL is required."
	} else if !validURL(f.MapURL) {
		errs["map_url"] = "Enter a valid URL."
	}

	if f.ImgURL == "" {
		errs["img_url"] = "Image URL is required."
	} else if !validURL(f.ImgURL) {
		errs["img_url"] = "Enter a valid URL."
	}

	if f.Location == "" {
		errs["location"] = "Location is required."
	}

	if f.CoffeePrice == "" {
		errs["coffee_price"] = "Coffee price is required."
	}

	return errs
}
