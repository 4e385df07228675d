// internal/domain/payment/service.go
package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/session"
	"github.com/your-org/course-registration/internal/pkg/pdf"
)

var (
	ErrNoOrder           = errors.New("no submitted order to pay for")
	ErrReportInProgress  = errors.New("payment report already in progress")
	ErrNoticeUnavailable = errors.New("payment notice is not available")
)

// Reporter sends a payment report to the backend
type Reporter interface {
	SubmitPayment(ctx context.Context, report *Report) error
}

// Drafts reads the session's order draft
type Drafts interface {
	GetDraft(ctx context.Context, sessionID string) (*order.Draft, error)
}

// NoticeRenderer renders the bank transfer notice
type NoticeRenderer interface {
	GeneratePaymentNotice(data pdf.NoticeData) (*bytes.Buffer, error)
}

// Service handles the bank transfer step after an order is accepted
type Service struct {
	store   *session.Store
	drafts  Drafts
	gateway Reporter
	journal order.Journal
	notices NoticeRenderer
	config  config.PaymentConfig
	logger  *logrus.Logger
	now     func() time.Time
}

// NewService creates a new payment service. journal and notices may be nil.
func NewService(store *session.Store, drafts Drafts, gateway Reporter, journal order.Journal, notices NoticeRenderer, cfg config.PaymentConfig, logger *logrus.Logger) *Service {
	if journal == nil {
		journal = order.NopJournal{}
	}
	return &Service{
		store:   store,
		drafts:  drafts,
		gateway: gateway,
		journal: journal,
		notices: notices,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// GetSummary returns the order and bank details for the payment page
func (s *Service) GetSummary(ctx context.Context, sessionID string) (*Summary, error) {
	draft, err := s.submitted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.summarize(draft), nil
}

// Deadline is the transfer deadline for an order submitted at the given time
func (s *Service) Deadline(submittedAt time.Time) time.Time {
	return submittedAt.AddDate(0, 0, s.config.DeadlineDays)
}

// SubmitReport validates and forwards a payment report. On success all of
// the session's state is cleared; on failure it is kept for a retry.
func (s *Service) SubmitReport(ctx context.Context, sessionID string, req *ReportRequest) error {
	draft, err := s.submitted(ctx, sessionID)
	if err != nil {
		return err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	release, ok := s.store.Acquire(ctx, sessionID, "submitPayment")
	if !ok {
		return ErrReportInProgress
	}
	defer release()

	// a report that finished between the first read and the lock cleared the order
	if draft, err = s.submitted(ctx, sessionID); err != nil {
		return err
	}

	report := &Report{
		OrderID:      draft.OrderID,
		PaymentDate:  req.PaymentDate,
		AccountLast5: req.AccountLast5,
		Amount:       req.Amount,
	}

	if report.Amount != draft.Total {
		s.logger.WithFields(logrus.Fields{
			"order_id": draft.OrderID,
			"reported": report.Amount,
			"expected": draft.Total,
		}).Warn("Reported amount differs from order total")
	}

	if err := s.gateway.SubmitPayment(ctx, report); err != nil {
		s.logger.WithError(err).WithField("order_id", draft.OrderID).Warn("Payment report failed")
		return fmt.Errorf("failed to submit payment report: %w", err)
	}

	s.store.Clear(ctx, sessionID)

	if err := s.journal.MarkPaymentReported(ctx, draft.OrderID, s.now().UTC()); err != nil {
		s.logger.WithError(err).WithField("order_id", draft.OrderID).Error("Failed to journal payment report")
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   draft.OrderID,
		"amount":     report.Amount,
	}).Info("Payment reported")

	return nil
}

// Notice renders the payment notice PDF of the session's submitted order
func (s *Service) Notice(ctx context.Context, sessionID string) (*bytes.Buffer, string, error) {
	if s.notices == nil {
		return nil, "", ErrNoticeUnavailable
	}
	draft, err := s.submitted(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	summary := s.summarize(draft)
	buf, err := s.notices.GeneratePaymentNotice(pdf.NoticeData{
		Order:    draft,
		Deadline: summary.Deadline.Format("January 2, 2006"),
		Bank:     summary.Bank,
		IssuedAt: s.now().Format("January 2, 2006"),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate payment notice: %w", err)
	}
	return buf, fmt.Sprintf("payment-notice-%s.pdf", draft.OrderID), nil
}

func (s *Service) submitted(ctx context.Context, sessionID string) (*order.Draft, error) {
	draft, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil || !draft.Submitted() {
		return nil, ErrNoOrder
	}
	return draft, nil
}

func (s *Service) summarize(draft *order.Draft) *Summary {
	submittedAt := s.now()
	if draft.SubmittedAt != nil {
		submittedAt = *draft.SubmittedAt
	}
	return &Summary{
		OrderID:        draft.OrderID,
		Subtotal:       draft.Subtotal,
		DiscountAmount: draft.DiscountAmount,
		TotalAmount:    draft.Total,
		HasDiscount:    draft.HasDiscount,
		Seats:          draft.Seats(),
		Deadline:       s.Deadline(submittedAt),
		Bank:           s.config.Bank,
	}
}
