package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

func ValidateRegister(email, displayName, password string) ValidationErrors {
	errs := make(ValidationErrors)

	// Email
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	validateDisplayName(displayName, errs)

	// Password
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateActivity(title, description, category, city, venue string, date time.Time) ValidationErrors {
	errs := make(ValidationErrors)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > 100 {
		errs.Add("title", "Title is too long")
	}

	if strings.TrimSpace(description) == "" {
		errs.Add("description", "Description is required")
	}

	if strings.TrimSpace(category) == "" {
		errs.Add("category", "Category is required")
	}

	if strings.TrimSpace(city) == "" {
		errs.Add("city", "City is required")
	}

	if strings.TrimSpace(venue) == "" {
		errs.Add("venue", "Venue is required")
	}

	if date.IsZero() {
		errs.Add("date", "Date is required")
	} else if date.Before(time.Now()) {
		errs.Add("date", "Date must be in the future")
	}

	return errs
}

func ValidateEditProfile(displayName string) ValidationErrors {
	errs := make(ValidationErrors)
	validateDisplayName(displayName, errs)
	return errs
}

func ValidateComment(body string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(body) == "" {
		errs.Add("body", "Comment body is required")
	} else if len(body) > 2000 {
		errs.Add("body", "Comment is too long")
	}

	return errs
}

func ValidatePhoto(photoURL, publicID string) ValidationErrors {
	errs := make(ValidationErrors)

	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		errs.Add("url", "Photo URL is required")
	} else if u, err := url.Parse(photoURL); err != nil || !u.IsAbs() {
		errs.Add("url", "Photo URL must be absolute")
	}

	if strings.TrimSpace(publicID) == "" {
		errs.Add("public_id", "Public ID is required")
	}

	return errs
}

func validateDisplayName(displayName string, errs ValidationErrors) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		errs.Add("display_name", "Display name is required")
	} else if len(displayName) < 2 {
		errs.Add("display_name", "Display name must be at least 2 characters")
	} else if len(displayName) > 100 {
		errs.Add("display_name", "Display name is too long")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
