// internal/domain/order/assembler.go
package order

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/pricing"
)

const (
	orderIDPrefix = "ORD-"
	suffixLength  = 6
)

// suffixSpace is 36^6, the number of distinct upper-case base-36 suffixes.
var suffixSpace = big.NewInt(2176782336)

// Assembler builds submission payloads and client-side order IDs.
type Assembler struct {
	now    func() time.Time
	random io.Reader
}

// NewAssembler creates an assembler using the wall clock and crypto/rand
func NewAssembler() *Assembler {
	return &Assembler{
		now:    time.Now,
		random: rand.Reader,
	}
}

// GenerateOrderID returns ORD-<YYYYMMDD>-<6 upper-case base-36 chars> for
// the current UTC date. The ID is advisory; the backend may replace it.
func (a *Assembler) GenerateOrderID() (string, error) {
	n, err := rand.Int(a.random, suffixSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}
	suffix := strings.ToUpper(strconv.FormatInt(n.Int64(), 36))
	if len(suffix) < suffixLength {
		suffix = strings.Repeat("0", suffixLength-len(suffix)) + suffix
	}
	return orderIDPrefix + a.now().UTC().Format("20060102") + "-" + suffix, nil
}

// BuildSubmission assembles the submitOrder payload. National IDs are
// masked here and never leave the assembler in full.
func (a *Assembler) BuildSubmission(items []cart.LineItem, registrants []RegistrantInput, discount pricing.DiscountResult) (*Submission, error) {
	orderID, err := a.GenerateOrderID()
	if err != nil {
		return nil, err
	}

	lines := make([]SubmissionItem, len(items))
	for i, item := range items {
		lines[i] = SubmissionItem{
			CourseID:  item.CourseID,
			SessionID: item.SessionID,
			Quantity:  item.Quantity,
		}
	}

	rate := 1.0
	if discount.HasDiscount {
		rate = discount.DiscountRate
	}

	return &Submission{
		OrderID:      orderID,
		Items:        lines,
		TotalAmount:  discount.Total,
		DiscountRate: rate,
		Registrants:  MaskRegistrants(registrants),
	}, nil
}

// MaskRegistrants converts form inputs into their storable form
func MaskRegistrants(inputs []RegistrantInput) []Registrant {
	out := make([]Registrant, len(inputs))
	for i, in := range inputs {
		out[i] = Registrant{
			Name:             in.Name,
			NationalIDMasked: MaskNationalID(in.NationalID),
			Birthdate:        in.Birthdate,
			Address:          in.Address,
			Phone:            in.Phone,
			Email:            in.Email,
			Education:        in.Education,
		}
	}
	return out
}

// MaskNationalID keeps the first three and last three characters of a
// 10-character ID. Any other length is returned unchanged.
func MaskNationalID(id string) string {
	r := []rune(id)
	if len(r) != 10 {
		return id
	}
	return string(r[:3]) + "****" + string(r[7:])
}
