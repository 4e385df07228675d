// internal/domain/payment/entity.go
package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/validation"
)

var nonDigits = regexp.MustCompile(`\D`)

// reportMessages maps a field and its failed tag to the message shown
var reportMessages = map[string]map[string]string{
	"payment_date": {
		"required":                "Payment date is required",
		validation.TagPaymentDate: "Payment date is invalid",
	},
	"account_last5": {
		"required": "Last 5 digits of the account are required",
		"len":      "Enter exactly 5 digits",
		"numeric":  "Enter exactly 5 digits",
	},
	"amount": {
		"gt": "Amount must be greater than zero",
	},
}

// Report is the payload of a submitPayment call
type Report struct {
	OrderID      string `json:"order_id"`
	PaymentDate  string `json:"payment_date"`
	AccountLast5 string `json:"account_last5"`
	Amount       int64  `json:"amount"`
}

// ReportRequest represents the payment report form post
type ReportRequest struct {
	PaymentDate  string `json:"payment_date" binding:"required,payment_date"`
	AccountLast5 string `json:"account_last5" binding:"required,len=5,numeric"`
	Amount       int64  `json:"amount" binding:"gt=0"`
}

// Summary is what the payment page renders for a submitted order
type Summary struct {
	OrderID        string          `json:"order_id"`
	Subtotal       int64           `json:"subtotal"`
	DiscountAmount int64           `json:"discount_amount"`
	TotalAmount    int64           `json:"total_amount"`
	HasDiscount    bool            `json:"has_discount"`
	Seats          int             `json:"seats"`
	Deadline       time.Time       `json:"deadline"`
	Bank           config.BankInfo `json:"bank"`
}

// ValidationError lists every problem of a payment report
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payment report has %d invalid fields", len(e.Fields))
}

// Normalize trims the date and strips non-digits from the account digits
func (r *ReportRequest) Normalize() {
	r.PaymentDate = strings.TrimSpace(r.PaymentDate)
	r.AccountLast5 = nonDigits.ReplaceAllString(r.AccountLast5, "")
}

// UnmarshalJSON decodes a report and normalizes it
func (r *ReportRequest) UnmarshalJSON(data []byte) error {
	type plain ReportRequest
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ReportRequest(raw)
	r.Normalize()
	return nil
}

// Validate checks a normalized payment report against its binding tags. The
// payment date accepts the local YYY/MM/DD calendar or an ISO YYYY-MM-DD date.
func (r *ReportRequest) Validate() error {
	err := validation.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := reportMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
