// internal/domain/order/journal.go
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Journal keeps an audit trail of accepted submissions. It is not the
// source of truth; the backend is.
type Journal interface {
	RecordSubmission(ctx context.Context, sessionID string, sub *Submission) error
	MarkPaymentReported(ctx context.Context, orderID string, at time.Time) error
}

// NopJournal discards every entry
type NopJournal struct{}

func (NopJournal) RecordSubmission(context.Context, string, *Submission) error { return nil }
func (NopJournal) MarkPaymentReported(context.Context, string, time.Time) error { return nil }

// GormJournal stores submissions in the order_submissions table
type GormJournal struct {
	db *gorm.DB
}

// NewGormJournal creates a database-backed journal
func NewGormJournal(db *gorm.DB) *GormJournal {
	return &GormJournal{db: db}
}

// RecordSubmission inserts one accepted submission
func (j *GormJournal) RecordSubmission(ctx context.Context, sessionID string, sub *Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	seats := 0
	for _, item := range sub.Items {
		seats += item.Quantity
	}

	record := &SubmissionRecord{
		OrderID:      sub.OrderID,
		SessionID:    sessionID,
		TotalAmount:  sub.TotalAmount,
		DiscountRate: sub.DiscountRate,
		Seats:        seats,
		Payload:      string(payload),
	}
	if err := j.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// MarkPaymentReported stamps the submission whose payment was reported
func (j *GormJournal) MarkPaymentReported(ctx context.Context, orderID string, at time.Time) error {
	result := j.db.WithContext(ctx).
		Model(&SubmissionRecord{}).
		Where("order_id = ?", orderID).
		Update("payment_reported_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to mark payment reported: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("submission %s not found", orderID)
	}
	return nil
}
