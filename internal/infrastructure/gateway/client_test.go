package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(url string) *Client {
	return NewClient(config.GatewayConfig{
		URL:           url,
		Token:         "tok-123",
		Origin:        "https://shop.example.com",
		Timeout:       time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		RetryMaxDelay: 5 * time.Millisecond,
	}, quietLogger())
}

func TestClient_RequestShape(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"success":true,"data":{"remaining":7}}`))
	}))
	defer srv.Close()

	remaining, err := newTestClient(srv.URL + "/exec").CheckQuota(context.Background(), "DT-001-2026-03A")
	require.NoError(t, err)
	assert.Equal(t, 7, remaining)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/exec", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "tok-123", q.Get("token"))
	assert.Equal(t, ActionCheckQuota, q.Get("action"))
	assert.Equal(t, "https://shop.example.com", q.Get("referer"))
	assert.JSONEq(t, `{"session_id":"DT-001-2026-03A"}`, q.Get("data"))
}

func TestClient_GetCourses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"course_id":"DT-001","course_name":"Officer","location":"Downtown","hours":115,"price":18000,"sessions":[{"session_id":"DT-001-2026-03A","date":"2026/03/03 - 03/21","quota":30,"remaining":12}]}]}`))
	}))
	defer srv.Close()

	courses, err := newTestClient(srv.URL).GetCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(18000), courses[0].Price)
	assert.Equal(t, 12, courses[0].Sessions[0].Remaining)
}

func TestClient_BackendRejectionKeepsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Session DT-005-2026-02A has only 2 seats left"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SubmitOrder(context.Background(), &order.Submission{OrderID: "ORD-20260305-ABC123"})

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Session DT-005-2026-02A has only 2 seats left", gerr.Error())
	assert.False(t, gerr.Temporary)
}

func TestClient_RejectionWithoutMessageUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SubmitPayment(context.Background(), &payment.Report{OrderID: "ORD-1"})
	assert.EqualError(t, err, FallbackMessage)
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetCourses(context.Background())

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, FallbackMessage, gerr.Message)
}

func TestClient_SubmitOrderReturnsBackendID(t *testing.T) {
	var sent order.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("data")), &sent))
		_, _ = w.Write([]byte(`{"success":true,"order_id":"ORD-20260305-SERVER"}`))
	}))
	defer srv.Close()

	sub := &order.Submission{
		OrderID:      "ORD-20260305-CLIENT",
		Items:        []order.SubmissionItem{{CourseID: "DT-001", SessionID: "DT-001-2026-03A", Quantity: 2}},
		TotalAmount:  28800,
		DiscountRate: 0.8,
		Registrants:  []order.Registrant{{Name: "Chen", NationalIDMasked: "A12****789"}},
	}
	result, err := newTestClient(srv.URL).SubmitOrder(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260305-SERVER", result.OrderID)
	assert.Equal(t, *sub, sent)
}

func TestClient_ReadsRetryServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	courses, err := newTestClient(srv.URL).GetCourses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ReadsDoNotRetryRejections(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"success":false,"error":"invalid token"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetCourses(context.Background())
	assert.EqualError(t, err, "invalid token")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_SubmissionsNeverRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SubmitOrder(context.Background(), &order.Submission{})

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusBadGateway, gerr.StatusCode)
	assert.True(t, gerr.Temporary)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := newTestClient(srv.URL)
	client.timeout = 20 * time.Millisecond

	err := client.SubmitPayment(context.Background(), &payment.Report{OrderID: "ORD-1"})

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.True(t, gerr.Temporary)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
