package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Tags usable in binding struct tags once Engine has run
const (
	TagNationalID  = "national_id"
	TagLocalDate   = "local_date"
	TagPhone       = "mobile_phone"
	TagEmail       = "contact_email"
	TagPaymentDate = "payment_date"
)

var registerOnce sync.Once

// Engine returns gin's validator with the custom tags registered. Field
// errors are reported under their JSON names.
func Engine() *validator.Validate {
	v := binding.Validator.Engine().(*validator.Validate)
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, TagNationalID, ValidateNationalID)
		mustRegister(v, TagLocalDate, ValidateLocalDate)
		mustRegister(v, TagPhone, ValidatePhone)
		mustRegister(v, TagEmail, ValidateEmail)
		mustRegister(v, TagPaymentDate, ValidatePaymentDate)
	})
	return v
}

// Struct checks v against its binding tags
func Struct(v interface{}) error {
	Engine()
	return binding.Validator.ValidateStruct(v)
}

// IsFieldError reports whether err lists failed binding tags
func IsFieldError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// ValidatePaymentDate accepts a YYY/MM/DD local-calendar date or an ISO
// YYYY-MM-DD date from a date picker.
func ValidatePaymentDate(date string) bool {
	if ValidateLocalDate(date) {
		return true
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func mustRegister(v *validator.Validate, tag string, check func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
