package usecase

import (
	"fmt"
	"strings"
)

// ValidationError mirrors a browser "required" constraint. Nothing beyond
// presence is checked.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func ValidateProfileForm(form ProfileForm) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(form.FirstName) == "" {
		errs = append(errs, ValidationError{"firstName", "is required"})
	}
	return errs
}

func ValidateLeadForm(form LeadForm) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(form.ClientName) == "" {
		errs = append(errs, ValidationError{"clientName", "is required"})
	}
	if strings.TrimSpace(form.ClientPhone) == "" {
		errs = append(errs, ValidationError{"clientPhone", "is required"})
	}
	if strings.TrimSpace(form.Service) == "" {
		errs = append(errs, ValidationError{"service", "is required"})
	}
	return errs
}
