// internal/domain/pricing/engine.go
package pricing

import "math"

// Figures produced here are advisory and drive the UI only. The backend
// re-derives price and discount from the submitted items.

// RateScale is the fixed-point scale for discount rates (basis points).
const RateScale = 10000

// DiscountConfig holds the group discount rule of a deployment.
type DiscountConfig struct {
	Rate       float64 // fraction paid when eligible, e.g. 0.8
	MinCourses int     // distinct courses that trigger the discount
	MinPersons int     // persons on a single line that trigger the discount
}

// Line is the pricing view of a cart line item.
type Line struct {
	CourseID string
	Price    int64
	Quantity int
}

// DiscountResult is derived from the cart on every render and never stored.
type DiscountResult struct {
	Subtotal       int64   `json:"subtotal"`
	DiscountAmount int64   `json:"discount_amount"`
	Total          int64   `json:"total"`
	HasDiscount    bool    `json:"has_discount"`
	DiscountRate   float64 `json:"discount_rate"`
	CoursesToGo    int     `json:"courses_to_go,omitempty"` // distinct courses still missing for the course trigger
	PersonsToGo    int     `json:"persons_to_go,omitempty"` // persons still missing on the largest line
}

// Engine computes group discounts for a fixed configuration.
type Engine struct {
	config DiscountConfig
}

// NewEngine creates a pricing engine
func NewEngine(cfg DiscountConfig) *Engine {
	return &Engine{config: cfg}
}

// Config returns the engine's discount configuration.
func (e *Engine) Config() DiscountConfig {
	return e.config
}

// Compute is ComputeDiscount bound to the engine's configuration.
func (e *Engine) Compute(lines []Line) DiscountResult {
	return ComputeDiscount(lines, e.config)
}

// ComputeDiscount derives subtotal, discount and total from the cart lines.
//
// Total and DiscountAmount are rounded independently (round half up), so
// Total+DiscountAmount may differ from Subtotal by one currency unit.
func ComputeDiscount(lines []Line, cfg DiscountConfig) DiscountResult {
	if len(lines) == 0 {
		return DiscountResult{DiscountRate: 1}
	}

	var subtotal int64
	courses := make(map[string]struct{}, len(lines))
	maxQuantity := 0
	for _, l := range lines {
		subtotal += l.Price * int64(l.Quantity)
		courses[l.CourseID] = struct{}{}
		if l.Quantity > maxQuantity {
			maxQuantity = l.Quantity
		}
	}

	multipleCourses := len(courses) >= cfg.MinCourses
	multiplePersons := maxQuantity >= cfg.MinPersons
	hasDiscount := multipleCourses || multiplePersons

	result := DiscountResult{
		Subtotal:     subtotal,
		HasDiscount:  hasDiscount,
		DiscountRate: 1,
	}

	if !hasDiscount {
		result.Total = subtotal
		result.CoursesToGo = cfg.MinCourses - len(courses)
		result.PersonsToGo = cfg.MinPersons - maxQuantity
		return result
	}

	rate := RateBasisPoints(cfg.Rate)
	result.DiscountRate = cfg.Rate
	result.Total = mulRound(subtotal, rate)
	result.DiscountAmount = mulRound(subtotal, RateScale-rate)
	return result
}

// RateBasisPoints converts a fractional rate to basis points.
func RateBasisPoints(rate float64) int64 {
	return int64(math.Round(rate * RateScale))
}

// mulRound returns round(amount*bp/RateScale), half up, for non-negative amounts.
func mulRound(amount, bp int64) int64 {
	return (amount*bp + RateScale/2) / RateScale
}
