package cart

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/pricing"
	"github.com/your-org/course-registration/internal/domain/session"
	"github.com/your-org/course-registration/internal/infrastructure/database/redis/redistest"
)

type staticFinder struct {
	courses []catalog.CourseOffering
}

func (f staticFinder) FindSession(_ context.Context, courseID, sessionID string) (*catalog.CourseOffering, *catalog.SessionOffering, error) {
	for i := range f.courses {
		if f.courses[i].CourseID == courseID {
			if s, ok := f.courses[i].Session(sessionID); ok {
				return &f.courses[i], s, nil
			}
			return nil, nil, catalog.ErrSessionNotFound
		}
	}
	return nil, nil, catalog.ErrCourseNotFound
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	backend, _ := redistest.New(t)
	store := session.NewStore(backend, time.Hour, time.Minute, logger)
	finder := staticFinder{courses: []catalog.CourseOffering{
		*courseA(),
		{CourseID: "B", CourseName: "First Aid", Price: 8000, Sessions: []catalog.SessionOffering{{SessionID: "U", Remaining: 10}}},
	}}
	engine := pricing.NewEngine(pricing.DiscountConfig{Rate: 0.8, MinCourses: 2, MinPersons: 2})
	return NewService(store, finder, engine, logger)
}

func TestService_AddToCartPersistsAndPrices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{CourseID: "A", SessionID: "S", Quantity: 1})
	require.NoError(t, err)
	resp, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{CourseID: "B", SessionID: "U", Quantity: 1})
	require.NoError(t, err)

	totals := resp.Cart.Totals
	assert.True(t, totals.HasDiscount)
	assert.Equal(t, int64(26000), totals.Subtotal)
	assert.Equal(t, int64(20800), totals.Total)
	assert.Equal(t, int64(5200), totals.DiscountAmount)

	reloaded := svc.GetCart(ctx, "s1")
	assert.Len(t, reloaded.Items, 2)
	assert.Equal(t, 2, svc.GetCartItemCount(ctx, "s1"))
	assert.Equal(t, 0, svc.GetCartItemCount(ctx, "other"))
}

func TestService_AddToCartOverQuota(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{CourseID: "A", SessionID: "S", Quantity: 6})

	assert.ErrorIs(t, err, ErrQuantityExceedsQuota)
	assert.Empty(t, svc.GetCart(ctx, "s1").Items)
}

func TestService_AddToCartUnknownSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddToCart(context.Background(), "s1", &AddToCartRequest{CourseID: "A", SessionID: "nope", Quantity: 1})

	assert.ErrorIs(t, err, catalog.ErrSessionNotFound)
}

func TestService_QuantityOperations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{CourseID: "A", SessionID: "S", Quantity: 5})
	require.NoError(t, err)

	rejected := svc.AdjustQuantity(ctx, "s1", 0, 1)
	assert.True(t, rejected.Outcome.BoundsExceeded)
	assert.Equal(t, 5, svc.GetCart(ctx, "s1").Items[0].Quantity)

	clamped := svc.SetQuantity(ctx, "s1", 0, 6)
	assert.True(t, clamped.Outcome.Clamped)
	assert.Equal(t, 5, clamped.Cart.Items[0].Quantity)

	lowered := svc.AdjustQuantity(ctx, "s1", 0, -4)
	assert.Equal(t, 1, lowered.Cart.Items[0].Quantity)
	assert.False(t, lowered.Cart.Totals.HasDiscount)

	removed := svc.RemoveItem(ctx, "s1", 0)
	assert.True(t, removed.Outcome.Removed)
	assert.Empty(t, svc.GetCart(ctx, "s1").Items)
}

func TestService_ClearCart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{CourseID: "B", SessionID: "U", Quantity: 2})
	require.NoError(t, err)

	svc.ClearCart(ctx, "s1")

	resp := svc.GetCart(ctx, "s1")
	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(0), resp.Totals.Total)
}
