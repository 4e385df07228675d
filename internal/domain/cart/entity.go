// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"time"

	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/pricing"
)

// ErrQuantityExceedsQuota is returned when a line would exceed the session's remaining seats.
var ErrQuantityExceedsQuota = errors.New("quantity exceeds remaining quota")

// ErrInvalidQuantity is returned for additions of fewer than one seat.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// LineItem is one (course, session) selection. Course details are captured at
// add time so the cart renders independently of later catalog changes.
type LineItem struct {
	CourseID    string    `json:"course_id"`
	CourseName  string    `json:"course_name"`
	Location    string    `json:"location"`
	Hours       int       `json:"hours"`
	Price       int64     `json:"price"`
	SessionID   string    `json:"session_id"`
	SessionDate string    `json:"session_date"`
	Quantity    int       `json:"quantity"`
	Remaining   int       `json:"remaining"` // local upper bound from the last snapshot, not truth
	AddedAt     time.Time `json:"added_at"`
}

// Subtotal returns price times quantity.
func (l LineItem) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is the ordered sequence of line items of one session, in insertion order.
// It caches no totals; call Pricing after every mutation.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Outcome describes what a mutation did so callers can raise the matching notice.
type Outcome struct {
	Changed        bool      `json:"changed"`
	Removed        bool      `json:"removed"`
	Clamped        bool      `json:"clamped"`
	BoundsExceeded bool      `json:"bounds_exceeded"`
	Quantity       int       `json:"quantity"`
	Item           *LineItem `json:"-"`
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity is the number of seats in the cart, which is also the number of
// registrants the registration step must collect.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Find returns the index of the line with the merge key, or -1.
func (c *Cart) Find(courseID, sessionID string) int {
	for i := range c.Items {
		if c.Items[i].CourseID == courseID && c.Items[i].SessionID == sessionID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity seats of the session, merging with an existing line.
// The cart is left unchanged when the resulting quantity would exceed remaining.
func (c *Cart) AddItem(course *catalog.CourseOffering, session *catalog.SessionOffering, quantity int, now time.Time) (Outcome, error) {
	if quantity < 1 {
		return Outcome{}, ErrInvalidQuantity
	}
	if quantity > session.Remaining {
		return Outcome{BoundsExceeded: true}, ErrQuantityExceedsQuota
	}

	if i := c.Find(course.CourseID, session.SessionID); i >= 0 {
		newQuantity := c.Items[i].Quantity + quantity
		if newQuantity > session.Remaining {
			return Outcome{BoundsExceeded: true, Quantity: c.Items[i].Quantity}, ErrQuantityExceedsQuota
		}

		c.Items[i].Quantity = newQuantity
		c.Items[i].Remaining = session.Remaining
		return Outcome{Changed: true, Quantity: newQuantity, Item: &c.Items[i]}, nil
	}

	c.Items = append(c.Items, LineItem{
		CourseID:    course.CourseID,
		CourseName:  course.CourseName,
		Location:    course.Location,
		Hours:       course.Hours,
		Price:       course.Price,
		SessionID:   session.SessionID,
		SessionDate: session.Date,
		Quantity:    quantity,
		Remaining:   session.Remaining,
		AddedAt:     now,
	})
	last := &c.Items[len(c.Items)-1]
	return Outcome{Changed: true, Quantity: quantity, Item: last}, nil
}

// AdjustQuantity changes a line by delta. Dropping below one removes the line;
// exceeding the stored remaining rejects the change without clamping.
// Out-of-range indexes are ignored.
func (c *Cart) AdjustQuantity(index, delta int) Outcome {
	if !c.valid(index) {
		return Outcome{}
	}

	item := &c.Items[index]
	newQuantity := item.Quantity + delta
	if newQuantity < 1 {
		return c.RemoveItem(index)
	}
	if newQuantity > item.Remaining {
		return Outcome{BoundsExceeded: true, Quantity: item.Quantity, Item: item}
	}

	item.Quantity = newQuantity
	return Outcome{Changed: true, Quantity: newQuantity, Item: item}
}

// SetQuantity sets a line's quantity, clamping it to [1, remaining].
// Unlike AdjustQuantity it never rejects; Clamped reports an upper-bound clamp.
// Out-of-range indexes are ignored.
func (c *Cart) SetQuantity(index, value int) Outcome {
	if !c.valid(index) {
		return Outcome{}
	}

	item := &c.Items[index]
	out := Outcome{Changed: true, Item: item}
	if value < 1 {
		value = 1
	}
	if value > item.Remaining {
		value = item.Remaining
		out.Clamped = true
	}

	item.Quantity = value
	out.Quantity = value
	return out
}

// RemoveItem deletes a line. Out-of-range indexes are ignored.
func (c *Cart) RemoveItem(index int) Outcome {
	if !c.valid(index) {
		return Outcome{}
	}

	removed := c.Items[index]
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return Outcome{Changed: true, Removed: true, Item: &removed}
}

// PricingLines converts the cart into pricing engine input.
func (c *Cart) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{
			CourseID: item.CourseID,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return lines
}

func (c *Cart) valid(index int) bool {
	return index >= 0 && index < len(c.Items)
}
