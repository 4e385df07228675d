package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/course-registration/internal/domain/validation"
)

var testLevels = []string{"Senior/vocational high", "Bachelor", "Master"}

func validInput() RegistrantInput {
	return RegistrantInput{
		Name:       "Chen Mei",
		NationalID: "A123456789",
		Birthdate:  "080/01/15",
		Address:    "No. 1, Taichung",
		Phone:      "0912345678",
		Email:      "mei@example.com",
		Education:  "Bachelor",
	}
}

func TestValidateRegistration_NormalizesInput(t *testing.T) {
	in := validInput()
	in.NationalID = "  a123456789 "
	in.Name = " Chen Mei "

	out, err := ValidateRegistration(&RegisterRequest{Registrants: []RegistrantInput{in}, PrivacyAgreed: true}, 1, testLevels)
	require.NoError(t, err)
	assert.Equal(t, "A123456789", out[0].NationalID)
	assert.Equal(t, "Chen Mei", out[0].Name)
}

func TestValidateRegistration_RequiresPrivacyConsent(t *testing.T) {
	_, err := ValidateRegistration(&RegisterRequest{Registrants: []RegistrantInput{validInput()}}, 1, testLevels)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Form, 1)
	assert.Empty(t, verr.Fields)
}

func TestValidateRegistration_SeatCountMustMatch(t *testing.T) {
	_, err := ValidateRegistration(&RegisterRequest{Registrants: []RegistrantInput{validInput()}, PrivacyAgreed: true}, 2, testLevels)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Form[0], "Expected 2 registrants")
}

func TestValidateRegistration_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegistrantInput)
		field  string
	}{
		{"missing name", func(in *RegistrantInput) { in.Name = "  " }, "name"},
		{"missing id", func(in *RegistrantInput) { in.NationalID = "" }, "id_number"},
		{"bad checksum", func(in *RegistrantInput) { in.NationalID = "A123456780" }, "id_number"},
		{"bad birthdate", func(in *RegistrantInput) { in.Birthdate = "1991/01/15" }, "birthdate"},
		{"impossible birthdate", func(in *RegistrantInput) { in.Birthdate = "080/02/30" }, "birthdate"},
		{"missing address", func(in *RegistrantInput) { in.Address = "" }, "address"},
		{"bad phone", func(in *RegistrantInput) { in.Phone = "0212345678" }, "phone"},
		{"bad email", func(in *RegistrantInput) { in.Email = "mei@" }, "email"},
		{"unknown education", func(in *RegistrantInput) { in.Education = "Kindergarten" }, "education"},
		{"missing education", func(in *RegistrantInput) { in.Education = "" }, "education"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := ValidateRegistration(&RegisterRequest{Registrants: []RegistrantInput{validInput(), in}, PrivacyAgreed: true}, 2, testLevels)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, 1, verr.Fields[0].Index)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestValidateRegistration_ReportsEveryProblem(t *testing.T) {
	_, err := ValidateRegistration(&RegisterRequest{Registrants: []RegistrantInput{{}}}, 1, testLevels)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Form, 1)
	assert.Len(t, verr.Fields, 7)
	assert.Equal(t, "registration has 8 invalid fields", verr.Error())
}

func TestValidateRegistration_MessagesFollowFailedTag(t *testing.T) {
	in := validInput()
	in.Phone = "0212345678"
	empty := validInput()
	empty.Phone = ""

	_, err := ValidateRegistration(&RegisterRequest{Registrants: []RegistrantInput{in, empty}, PrivacyAgreed: true}, 2, testLevels)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{
		{Index: 0, Field: "phone", Message: "Enter a valid mobile number, e.g. 0912345678"},
		{Index: 1, Field: "phone", Message: "Phone is required"},
	}, verr.Fields)
}

func TestRegistrantInput_UnmarshalNormalizes(t *testing.T) {
	var req RegisterRequest
	body := `{"registrants":[{"name":" Chen Mei ","id_number":" a123456789","birthdate":"080/01/15 ","address":"No. 1","phone":" 0912345678","email":"mei@example.com","education":"Bachelor"}],"privacy_agreed":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "Chen Mei", req.Registrants[0].Name)
	assert.Equal(t, "A123456789", req.Registrants[0].NationalID)
	assert.Equal(t, "080/01/15", req.Registrants[0].Birthdate)
	assert.NoError(t, validation.Struct(&req))
}
