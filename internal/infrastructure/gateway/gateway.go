// internal/infrastructure/gateway/gateway.go
package gateway

import (
	"context"
	"errors"

	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
)

// Actions understood by the backend
const (
	ActionGetCourses    = "getCourses"
	ActionCheckQuota    = "checkQuota"
	ActionSubmitOrder   = "submitOrder"
	ActionSubmitPayment = "submitPayment"
)

// FallbackMessage is shown when the backend rejects a call without saying why
const FallbackMessage = "The operation failed, please try again"

// Gateway is the single channel to the remote course/order backend.
type Gateway interface {
	GetCourses(ctx context.Context) ([]catalog.CourseOffering, error)
	CheckQuota(ctx context.Context, sessionID string) (int, error)
	SubmitOrder(ctx context.Context, sub *order.Submission) (*order.SubmitResult, error)
	SubmitPayment(ctx context.Context, report *payment.Report) error
}

// Error is a failed backend call. Message is safe to show to the user:
// it is the backend's own message or FallbackMessage.
type Error struct {
	Action     string
	Message    string
	StatusCode int  // HTTP status, 0 when no response was received
	Temporary  bool // transport failures and 5xx responses
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTemporary reports whether err is a backend failure worth retrying
func IsTemporary(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Temporary
}

var (
	_ Gateway = (*Client)(nil)
	_ Gateway = (*LocalGateway)(nil)
)
