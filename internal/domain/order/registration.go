// internal/domain/order/registration.go
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/your-org/course-registration/internal/domain/validation"
)

const privacyMessage = "You must agree to the privacy policy"

// registrantIndex pulls the form position out of a validator namespace
// such as RegisterRequest.registrants[1].phone
var registrantIndex = regexp.MustCompile(`registrants\[(\d+)\]`)

var requiredMessages = map[string]string{
	"name":      "Name is required",
	"id_number": "National ID is required",
	"birthdate": "Birthdate is required",
	"address":   "Address is required",
	"phone":     "Phone is required",
	"email":     "Email is required",
	"education": "Select an education level",
}

var formatMessages = map[string]string{
	validation.TagNationalID: "National ID format is invalid",
	validation.TagLocalDate:  "Use the format YYY/MM/DD, e.g. 080/01/15",
	validation.TagPhone:      "Enter a valid mobile number, e.g. 0912345678",
	validation.TagEmail:      "Enter a valid email address",
}

// FieldError is one rejected field of one registrant form
type FieldError struct {
	Index   int    `json:"index"` // zero-based registrant position
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every problem found in a registration post
type ValidationError struct {
	Form   []string     `json:"form,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	n := len(e.Form) + len(e.Fields)
	if n == 1 {
		return "registration has 1 invalid field"
	}
	return fmt.Sprintf("registration has %d invalid fields", n)
}

func (e *ValidationError) empty() bool {
	return len(e.Form) == 0 && len(e.Fields) == 0
}

func (e *ValidationError) field(index int, field, message string) {
	e.Fields = append(e.Fields, FieldError{Index: index, Field: field, Message: message})
}

// collect turns failed binding tags into form and field errors. It reports
// false when err is not a tag failure.
func (e *ValidationError) collect(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == "privacy_agreed" {
			e.Form = append(e.Form, privacyMessage)
			continue
		}
		m := registrantIndex.FindStringSubmatch(fe.Namespace())
		if m == nil {
			continue
		}
		index, _ := strconv.Atoi(m[1])
		e.field(index, fe.Field(), fieldMessage(fe))
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return requiredMessages[fe.Field()]
	}
	if msg, ok := formatMessages[fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// Normalize trims every field and upper-cases the national ID
func (in RegistrantInput) Normalize() RegistrantInput {
	return RegistrantInput{
		Name:       strings.TrimSpace(in.Name),
		NationalID: strings.ToUpper(strings.TrimSpace(in.NationalID)),
		Birthdate:  strings.TrimSpace(in.Birthdate),
		Address:    strings.TrimSpace(in.Address),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		Education:  strings.TrimSpace(in.Education),
	}
}

// UnmarshalJSON decodes a form and normalizes it, so binding tags see the
// values that will be submitted.
func (in *RegistrantInput) UnmarshalJSON(data []byte) error {
	type plain RegistrantInput
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = RegistrantInput(raw).Normalize()
	return nil
}

// ValidateRegistration normalizes the forms and checks them. It returns the
// normalized forms, or a *ValidationError listing every problem.
func ValidateRegistration(req *RegisterRequest, seats int, educationLevels []string) ([]RegistrantInput, error) {
	normalized := make([]RegistrantInput, len(req.Registrants))
	for i, raw := range req.Registrants {
		normalized[i] = raw.Normalize()
	}

	verr := &ValidationError{}
	checked := &RegisterRequest{Registrants: normalized, PrivacyAgreed: req.PrivacyAgreed}
	if err := validation.Struct(checked); err != nil && !verr.collect(err) {
		return nil, err
	}

	if len(req.Registrants) != seats {
		verr.Form = append(verr.Form, fmt.Sprintf("Expected %d registrants, got %d", seats, len(req.Registrants)))
	}

	// education levels come from configuration, empty ones failed required above
	levels := make(map[string]struct{}, len(educationLevels))
	for _, level := range educationLevels {
		levels[level] = struct{}{}
	}
	for i, in := range normalized {
		if _, ok := levels[in.Education]; !ok && in.Education != "" {
			verr.field(i, "education", requiredMessages["education"])
		}
	}

	if !verr.empty() {
		return nil, verr
	}
	return normalized, nil
}
