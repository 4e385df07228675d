// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/pricing"
	"github.com/your-org/course-registration/internal/domain/session"
	"github.com/your-org/course-registration/internal/metrics"
)

// SessionFinder resolves the catalog snapshot of a session.
type SessionFinder interface {
	FindSession(ctx context.Context, courseID, sessionID string) (*catalog.CourseOffering, *catalog.SessionOffering, error)
}

// Service handles cart business logic for one session at a time.
// Each operation loads the cart, mutates it and saves the full replacement.
type Service struct {
	store   *session.Store
	catalog SessionFinder
	engine  *pricing.Engine
	logger  *logrus.Logger
	now     func() time.Time
}

// NewService creates a new cart service
func NewService(store *session.Store, finder SessionFinder, engine *pricing.Engine, logger *logrus.Logger) *Service {
	return &Service{
		store:   store,
		catalog: finder,
		engine:  engine,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CartResponse represents the cart with freshly computed totals
type CartResponse struct {
	Items         []LineItem             `json:"items"`
	ItemCount     int                    `json:"item_count"`
	TotalQuantity int                    `json:"total_quantity"`
	Totals        pricing.DiscountResult `json:"totals"`
}

// MutationResponse is the cart after a mutation plus what the mutation did
type MutationResponse struct {
	Cart    *CartResponse `json:"cart"`
	Outcome Outcome       `json:"outcome"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	CourseID  string `json:"course_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// AdjustQuantityRequest represents a +/- quantity change
type AdjustQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// SetQuantityRequest represents a typed-in quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Load reads the session's cart. Unreadable state yields an empty cart.
func (s *Service) Load(ctx context.Context, sessionID string) *Cart {
	var c Cart
	if !s.store.Load(ctx, sessionID, session.SlotCart, &c) {
		return &Cart{Items: []LineItem{}}
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	return &c
}

// Save persists the full cart.
func (s *Service) Save(ctx context.Context, sessionID string, c *Cart) {
	s.store.Save(ctx, sessionID, session.SlotCart, c)
}

// GetCart retrieves the session's cart with totals
func (s *Service) GetCart(ctx context.Context, sessionID string) *CartResponse {
	return s.respond(s.Load(ctx, sessionID))
}

// Totals computes the discount for a cart
func (s *Service) Totals(c *Cart) pricing.DiscountResult {
	return s.engine.Compute(c.PricingLines())
}

// AddToCart adds seats of a session, merging with an existing line.
func (s *Service) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (*MutationResponse, error) {
	course, sess, err := s.catalog.FindSession(ctx, req.CourseID, req.SessionID)
	if err != nil {
		return nil, err
	}

	c := s.Load(ctx, sessionID)
	outcome, err := c.AddItem(course, sess, req.Quantity, s.now())
	if err != nil {
		s.record("add", outcome, err)
		if errors.Is(err, ErrQuantityExceedsQuota) {
			return nil, fmt.Errorf("%w: %d seats remaining", err, sess.Remaining)
		}
		return nil, err
	}

	s.Save(ctx, sessionID, c)
	s.record("add", outcome, nil)

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"course_id":  req.CourseID,
		"quantity":   outcome.Quantity,
	}).Debug("Course added to cart")

	return &MutationResponse{Cart: s.respond(c), Outcome: outcome}, nil
}

// AdjustQuantity applies a +/- change to the line at index
func (s *Service) AdjustQuantity(ctx context.Context, sessionID string, index, delta int) *MutationResponse {
	return s.mutate(ctx, sessionID, "adjust", func(c *Cart) Outcome {
		return c.AdjustQuantity(index, delta)
	})
}

// SetQuantity sets the quantity of the line at index, clamping to its bounds
func (s *Service) SetQuantity(ctx context.Context, sessionID string, index, value int) *MutationResponse {
	return s.mutate(ctx, sessionID, "set", func(c *Cart) Outcome {
		return c.SetQuantity(index, value)
	})
}

// RemoveItem removes the line at index
func (s *Service) RemoveItem(ctx context.Context, sessionID string, index int) *MutationResponse {
	return s.mutate(ctx, sessionID, "remove", func(c *Cart) Outcome {
		return c.RemoveItem(index)
	})
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) {
	s.store.Delete(ctx, sessionID, session.SlotCart)
}

// GetCartItemCount returns the number of seats in the cart (cart badge)
func (s *Service) GetCartItemCount(ctx context.Context, sessionID string) int {
	return s.Load(ctx, sessionID).TotalQuantity()
}

func (s *Service) mutate(ctx context.Context, sessionID, op string, fn func(*Cart) Outcome) *MutationResponse {
	c := s.Load(ctx, sessionID)
	outcome := fn(c)
	if outcome.Changed {
		s.Save(ctx, sessionID, c)
	}
	s.record(op, outcome, nil)
	return &MutationResponse{Cart: s.respond(c), Outcome: outcome}
}

func (s *Service) respond(c *Cart) *CartResponse {
	return &CartResponse{
		Items:         c.Items,
		ItemCount:     c.Len(),
		TotalQuantity: c.TotalQuantity(),
		Totals:        s.Totals(c),
	}
}

func (s *Service) record(op string, outcome Outcome, err error) {
	label := "ignored"
	switch {
	case err != nil && outcome.BoundsExceeded:
		label = "rejected"
	case err != nil:
		label = "invalid"
	case outcome.BoundsExceeded:
		label = "rejected"
	case outcome.Clamped:
		label = "clamped"
	case outcome.Removed:
		label = "removed"
	case outcome.Changed:
		label = "changed"
	}
	metrics.CartMutations.WithLabelValues(op, label).Inc()
}
