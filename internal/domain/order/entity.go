// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/pricing"
)

// Draft is the order snapshot taken at checkout. It gains an order ID and
// masked registrants once the backend accepts the submission.
type Draft struct {
	Items          []cart.LineItem `json:"items"`
	Subtotal       int64           `json:"subtotal"`
	DiscountAmount int64           `json:"discount_amount"`
	Total          int64           `json:"total"`
	HasDiscount    bool            `json:"has_discount"`
	DiscountRate   float64         `json:"discount_rate"`
	CreatedAt      time.Time       `json:"created_at"`

	OrderID     string       `json:"order_id,omitempty"`
	Registrants []Registrant `json:"registrants,omitempty"`
	SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
}

// Submitted reports whether the backend has accepted this order.
func (d *Draft) Submitted() bool {
	return d.OrderID != ""
}

// Seats is the number of registrant forms the draft needs.
func (d *Draft) Seats() int {
	total := 0
	for _, item := range d.Items {
		total += item.Quantity
	}
	return total
}

// Discount returns the pricing snapshot captured at checkout.
func (d *Draft) Discount() pricing.DiscountResult {
	rate := d.DiscountRate
	if rate == 0 {
		rate = 1
	}
	return pricing.DiscountResult{
		Subtotal:       d.Subtotal,
		DiscountAmount: d.DiscountAmount,
		Total:          d.Total,
		HasDiscount:    d.HasDiscount,
		DiscountRate:   rate,
	}
}

// RegistrantInput is one person's form as entered, national ID in full.
type RegistrantInput struct {
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"id_number" binding:"required,national_id"`
	Birthdate  string `json:"birthdate" binding:"required,local_date"`
	Address    string `json:"address" binding:"required"`
	Phone      string `json:"phone" binding:"required,mobile_phone"`
	Email      string `json:"email" binding:"required,contact_email"`
	Education  string `json:"education" binding:"required"`
}

// Registrant is a registrant as submitted and stored. The national ID is
// only ever kept masked.
type Registrant struct {
	Name             string `json:"name"`
	NationalIDMasked string `json:"id_number_masked"`
	Birthdate        string `json:"birthdate"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Education        string `json:"education"`
}

// SubmissionItem is one line of the submission payload
type SubmissionItem struct {
	CourseID  string `json:"course_id"`
	SessionID string `json:"session_id"`
	Quantity  int    `json:"quantity"`
}

// Submission is the payload of a submitOrder call
type Submission struct {
	OrderID      string           `json:"order_id"`
	Items        []SubmissionItem `json:"items"`
	TotalAmount  int64            `json:"total_amount"`
	DiscountRate float64          `json:"discount_rate"`
	Registrants  []Registrant     `json:"registrants"`
}

// SubmitResult is what the backend returns for an accepted order
type SubmitResult struct {
	OrderID string `json:"order_id"`
}

// RegisterRequest represents the registration form post
type RegisterRequest struct {
	Registrants   []RegistrantInput `json:"registrants" binding:"dive"`
	PrivacyAgreed bool              `json:"privacy_agreed" binding:"required"`
}

// RegistrationForm is what the registration page needs to render
type RegistrationForm struct {
	Draft           *Draft   `json:"order"`
	Seats           int      `json:"seats"`
	EducationLevels []string `json:"education_levels"`
}

// SubmissionRecord is the journal row of an accepted order. It never holds
// a full national ID.
type SubmissionRecord struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	OrderID           string     `gorm:"uniqueIndex;not null;size:32" json:"order_id"`
	SessionID         string     `gorm:"index;size:64" json:"session_id"`
	TotalAmount       int64      `gorm:"not null" json:"total_amount"`
	DiscountRate      float64    `gorm:"not null" json:"discount_rate"`
	Seats             int        `gorm:"not null" json:"seats"`
	Payload           string     `gorm:"type:text" json:"payload"`
	PaymentReportedAt *time.Time `json:"payment_reported_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName returns the journal table name
func (SubmissionRecord) TableName() string {
	return "order_submissions"
}
