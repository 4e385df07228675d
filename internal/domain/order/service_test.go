package order

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/pricing"
	"github.com/your-org/course-registration/internal/domain/session"
	"github.com/your-org/course-registration/internal/infrastructure/database/redis/redistest"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	calls    []*Submission
	err      error
	returnID string
	entered  chan struct{}
	block    chan struct{}
}

func (f *fakeSubmitter) SubmitOrder(_ context.Context, sub *Submission) (*SubmitResult, error) {
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sub)
	if f.err != nil {
		return nil, f.err
	}
	return &SubmitResult{OrderID: f.returnID}, nil
}

type recordingJournal struct {
	recorded []string
	err      error
}

func (j *recordingJournal) RecordSubmission(_ context.Context, _ string, sub *Submission) error {
	j.recorded = append(j.recorded, sub.OrderID)
	return j.err
}

func (j *recordingJournal) MarkPaymentReported(context.Context, string, time.Time) error {
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

type fixture struct {
	svc       *Service
	carts     *cart.Service
	backend   session.Backend
	store     *session.Store
	gateway   *fakeSubmitter
	journal   *recordingJournal
	catalog   *countingInvalidator
	sessionID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	backend, _ := redistest.New(t)
	store := session.NewStore(backend, time.Hour, time.Minute, logger)
	engine := pricing.NewEngine(pricing.DiscountConfig{Rate: 0.8, MinCourses: 2, MinPersons: 2})
	carts := cart.NewService(store, nil, engine, logger)
	gateway := &fakeSubmitter{}
	journal := &recordingJournal{}
	inv := &countingInvalidator{}

	return &fixture{
		svc:       NewService(store, carts, gateway, journal, inv, testLevels, logger),
		carts:     carts,
		backend:   backend,
		store:     store,
		gateway:   gateway,
		journal:   journal,
		catalog:   inv,
		sessionID: "sess-1",
	}
}

func (f *fixture) fillCart(items ...cart.LineItem) {
	f.carts.Save(context.Background(), f.sessionID, &cart.Cart{Items: items})
}

func twoCourseCart() []cart.LineItem {
	return []cart.LineItem{
		{CourseID: "DT-001", CourseName: "Forklift", SessionID: "DT-001-2026-03A", Price: 18000, Quantity: 1, Remaining: 12},
		{CourseID: "DT-002", CourseName: "First Aid", SessionID: "DT-002-2026-03A", Price: 8000, Quantity: 1, Remaining: 8},
	}
}

func twoRegistrants() *RegisterRequest {
	second := validInput()
	second.Name = "Lin Hao"
	second.NationalID = "F131104093"
	return &RegisterRequest{Registrants: []RegistrantInput{validInput(), second}, PrivacyAgreed: true}
}

func TestService_CheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), f.sessionID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestService_CheckoutSnapshotsTotals(t *testing.T) {
	f := newFixture(t)
	f.fillCart(twoCourseCart()...)

	draft, err := f.svc.Checkout(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(26000), draft.Subtotal)
	assert.Equal(t, int64(20800), draft.Total)
	assert.True(t, draft.HasDiscount)
	assert.Equal(t, 2, draft.Seats())

	stored, err := f.svc.GetDraft(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, draft.Total, stored.Total)
	assert.False(t, f.carts.Load(context.Background(), f.sessionID).IsEmpty(), "checkout keeps the cart")
}

func TestService_RegistrationFormWithoutDraft(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RegistrationForm(context.Background(), f.sessionID)
	assert.ErrorIs(t, err, ErrNoOrderDraft)
}

func TestService_RegisterSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	draft, err := f.svc.Register(ctx, f.sessionID, twoRegistrants())
	require.NoError(t, err)

	require.Len(t, f.gateway.calls, 1)
	sub := f.gateway.calls[0]
	assert.Equal(t, int64(20800), sub.TotalAmount)
	assert.Equal(t, 0.8, sub.DiscountRate)
	assert.Equal(t, "A12****789", sub.Registrants[0].NationalIDMasked)

	assert.Equal(t, sub.OrderID, draft.OrderID)
	assert.NotNil(t, draft.SubmittedAt)
	assert.True(t, f.carts.Load(ctx, f.sessionID).IsEmpty())
	assert.Equal(t, []string{sub.OrderID}, f.journal.recorded)
	assert.Equal(t, 1, f.catalog.n)

	stored, err := f.svc.GetDraft(ctx, f.sessionID)
	require.NoError(t, err)
	assert.True(t, stored.Submitted())
	assert.Equal(t, "F13****093", stored.Registrants[1].NationalIDMasked)
}

func TestService_RegisterAdoptsBackendOrderID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.returnID = "ORD-20260305-BACKND"
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	draft, err := f.svc.Register(ctx, f.sessionID, twoRegistrants())
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260305-BACKND", draft.OrderID)
}

func TestService_RegisterGatewayFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.err = errors.New("Session DT-001-2026-03A is full")
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session DT-001-2026-03A is full")

	stored, err := f.svc.GetDraft(ctx, f.sessionID)
	require.NoError(t, err)
	assert.False(t, stored.Submitted())
	assert.Len(t, f.carts.Load(ctx, f.sessionID).Items, 2)
	assert.Empty(t, f.journal.recorded)

	// the guard was released, so a retry goes through
	f.gateway.err = nil
	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	assert.NoError(t, err)
}

func TestService_RegisterValidationDoesNotSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	req := twoRegistrants()
	req.Registrants = req.Registrants[:1]
	_, err = f.svc.Register(ctx, f.sessionID, req)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, f.gateway.calls)
}

func TestService_RegisterTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, f.gateway.calls, 1)
}

func TestService_RegisterConcurrentSubmissionIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	f.gateway.entered = make(chan struct{})
	f.gateway.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Register(ctx, f.sessionID, twoRegistrants())
		done <- err
	}()

	<-f.gateway.entered

	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(f.gateway.block)
	require.NoError(t, <-done)
	assert.Len(t, f.gateway.calls, 1)
}

func TestService_JournalFailureDoesNotFailRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.journal.err = errors.New("database is down")
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	assert.NoError(t, err)
}

// gatedBackend holds the first SetNX until open is closed
type gatedBackend struct {
	session.Backend
	once    sync.Once
	waiting chan struct{}
	open    chan struct{}
}

func newGatedBackend(b session.Backend) *gatedBackend {
	return &gatedBackend{Backend: b, waiting: make(chan struct{}), open: make(chan struct{})}
}

func (g *gatedBackend) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.waiting)
		<-g.open
	}
	return g.Backend.SetNX(ctx, key, value, ttl)
}

func TestService_RegisterRechecksDraftAfterLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(twoCourseCart()...)
	_, err := f.svc.Checkout(ctx, f.sessionID)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	gated := newGatedBackend(f.backend)
	late := NewService(session.NewStore(gated, time.Hour, time.Minute, logger), f.carts, f.gateway, f.journal, f.catalog, testLevels, logger)

	// late has read the pending draft and waits for the lock
	done := make(chan error, 1)
	go func() {
		_, err := late.Register(ctx, f.sessionID, twoRegistrants())
		done <- err
	}()
	<-gated.waiting

	_, err = f.svc.Register(ctx, f.sessionID, twoRegistrants())
	require.NoError(t, err)

	close(gated.open)
	assert.ErrorIs(t, <-done, ErrAlreadySubmitted)
	assert.Len(t, f.gateway.calls, 1)
}
