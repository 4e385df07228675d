// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/pricing"
	"github.com/your-org/course-registration/internal/domain/session"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoOrderDraft         = errors.New("no order in progress")
	ErrAlreadySubmitted     = errors.New("order has already been submitted")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
)

// Submitter sends an assembled order to the backend
type Submitter interface {
	SubmitOrder(ctx context.Context, sub *Submission) (*SubmitResult, error)
}

// Carts is the cart access the checkout flow needs
type Carts interface {
	Load(ctx context.Context, sessionID string) *cart.Cart
	Totals(c *cart.Cart) pricing.DiscountResult
	ClearCart(ctx context.Context, sessionID string)
}

// CatalogInvalidator drops cached remaining counts after seats are taken
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service drives checkout and registration
type Service struct {
	store           *session.Store
	carts           Carts
	gateway         Submitter
	journal         Journal
	catalog         CatalogInvalidator
	assembler       *Assembler
	educationLevels []string
	logger          *logrus.Logger
	now             func() time.Time
}

// NewService creates a new order service. journal and catalog may be nil.
func NewService(store *session.Store, carts Carts, gateway Submitter, journal Journal, catalog CatalogInvalidator, educationLevels []string, logger *logrus.Logger) *Service {
	if journal == nil {
		journal = NopJournal{}
	}
	return &Service{
		store:           store,
		carts:           carts,
		gateway:         gateway,
		journal:         journal,
		catalog:         catalog,
		assembler:       NewAssembler(),
		educationLevels: educationLevels,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Checkout snapshots the cart and its totals into a fresh order draft.
// The cart itself is kept until the order is accepted.
func (s *Service) Checkout(ctx context.Context, sessionID string) (*Draft, error) {
	c := s.carts.Load(ctx, sessionID)
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := s.carts.Totals(c)
	draft := &Draft{
		Items:          c.Items,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		HasDiscount:    totals.HasDiscount,
		DiscountRate:   totals.DiscountRate,
		CreatedAt:      s.now(),
	}
	s.store.Save(ctx, sessionID, session.SlotOrder, draft)

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"seats":      draft.Seats(),
		"total":      draft.Total,
	}).Info("Checkout started")

	return draft, nil
}

// GetDraft returns the session's order draft, submitted or not
func (s *Service) GetDraft(ctx context.Context, sessionID string) (*Draft, error) {
	var draft Draft
	if !s.store.Load(ctx, sessionID, session.SlotOrder, &draft) || len(draft.Items) == 0 {
		return nil, ErrNoOrderDraft
	}
	return &draft, nil
}

// RegistrationForm returns what the registration page renders for a pending draft
func (s *Service) RegistrationForm(ctx context.Context, sessionID string) (*RegistrationForm, error) {
	draft, err := s.pending(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &RegistrationForm{
		Draft:           draft,
		Seats:           draft.Seats(),
		EducationLevels: s.educationLevels,
	}, nil
}

// Register validates the registrant forms and submits the order. On
// acceptance the draft gains the order ID and masked registrants, and the
// cart is cleared. On failure nothing changes and the user may retry.
func (s *Service) Register(ctx context.Context, sessionID string, req *RegisterRequest) (*Draft, error) {
	draft, err := s.pending(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	registrants, err := ValidateRegistration(req, draft.Seats(), s.educationLevels)
	if err != nil {
		return nil, err
	}

	release, ok := s.store.Acquire(ctx, sessionID, "submitOrder")
	if !ok {
		return nil, ErrSubmissionInProgress
	}
	defer release()

	// another request may have submitted between the first read and the lock
	if draft, err = s.pending(ctx, sessionID); err != nil {
		return nil, err
	}
	if draft.Seats() != len(registrants) {
		_, err := ValidateRegistration(req, draft.Seats(), s.educationLevels)
		return nil, err
	}

	sub, err := s.assembler.BuildSubmission(draft.Items, registrants, draft.Discount())
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.SubmitOrder(ctx, sub)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": sessionID,
			"order_id":   sub.OrderID,
		}).Warn("Order submission failed")
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	if result != nil && result.OrderID != "" {
		sub.OrderID = result.OrderID
	}

	submittedAt := s.now()
	draft.OrderID = sub.OrderID
	draft.Registrants = sub.Registrants
	draft.SubmittedAt = &submittedAt
	s.store.Save(ctx, sessionID, session.SlotOrder, draft)
	s.carts.ClearCart(ctx, sessionID)

	if err := s.journal.RecordSubmission(ctx, sessionID, sub); err != nil {
		s.logger.WithError(err).WithField("order_id", sub.OrderID).Error("Failed to journal submission")
	}
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   sub.OrderID,
		"seats":      len(sub.Registrants),
		"total":      sub.TotalAmount,
	}).Info("Order submitted")

	return draft, nil
}

func (s *Service) pending(ctx context.Context, sessionID string) (*Draft, error) {
	draft, err := s.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.Submitted() {
		return nil, ErrAlreadySubmitted
	}
	return draft, nil
}
