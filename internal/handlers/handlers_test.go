package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/handlers"
	"github.com/deliverai/deliverai/internal/middlewares"
	"github.com/deliverai/deliverai/internal/web"
	"github.com/deliverai/deliverai/pkg/htmx"
	"github.com/deliverai/deliverai/pkg/mailer"
)

type mockOptimizer struct {
	mock.Mock
}

func (m *mockOptimizer) Optimize(ctx context.Context, draft campaign.EmailDraft) (*campaign.OptimizationResult, error) {
	args := m.Called(ctx, draft)
	res, _ := args.Get(0).(*campaign.OptimizationResult)
	return res, args.Error(1)
}

var delivered = mailer.SenderFunc(func(context.Context, *mailer.Email) error { return nil })

type fixture struct {
	app       http.Handler
	campaign  *campaign.Campaign
	optimizer *mockOptimizer
}

func newFixture(t *testing.T, sender mailer.Sender) *fixture {
	t.Helper()

	opt := &mockOptimizer{}
	c := campaign.New(opt, campaign.NewDispatcher(sender, campaign.WithDelay(0)))
	t.Cleanup(func() {
		c.Reset()
		c.Wait()
	})

	app := web.New(
		web.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
		web.WithErrorHandler(handlers.ErrorHandler),
		web.WithNotFoundHandler(handlers.NotFound),
		web.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		web.WithHandlers(handlers.NewDashboard(c), handlers.NewAPI(c)),
	)
	return &fixture{app: app, campaign: c, optimizer: opt}
}

func (f *fixture) form(t *testing.T, path string, values url.Values, htmxRequest bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmxRequest {
		req.Header.Set(htmx.HeaderHXRequest, "true")
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func draftForm(recipients, subject, body string) url.Values {
	return url.Values{
		"recipients": {recipients},
		"subject":    {subject},
		"body":       {body},
	}
}

func result() *campaign.OptimizationResult {
	return &campaign.OptimizationResult{
		OptimizedSubject:    "Your March statement",
		OptimizedBody:       "Hello,\n\nYour statement is ready.",
		DeliverabilityScore: 91,
		SpamFlags:           []string{"all caps subject"},
		Suggestions:         []string{"personalize the greeting"},
	}
}

func TestDashboard_Page(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)
	rec := f.do(t, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDashboard_Draft(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)
	rec := f.form(t, "/draft", draftForm("a@b.com; bad; c@d.com", "Hi", ""), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="actions"`)
	assert.Contains(t, rec.Body.String(), "2 valid recipients")
	assert.Equal(t, 2, f.campaign.Snapshot().RecipientCount)
}

func TestDashboard_Optimize(t *testing.T) {
	t.Parallel()

	t.Run("incomplete draft shows notice without calling optimizer", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, delivered)
		rec := f.form(t, "/optimize", draftForm("a@b.com", "", ""), true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "#notice", rec.Header().Get(htmx.HeaderHXRetarget))
		assert.Contains(t, rec.Body.String(), "subject is required")
		assert.Contains(t, rec.Body.String(), "email body is required")
		f.optimizer.AssertNotCalled(t, "Optimize", mock.Anything, mock.Anything)
		assert.Equal(t, campaign.StatusIdle, f.campaign.Snapshot().Status)
	})

	t.Run("incomplete draft without htmx is 422", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, delivered)
		rec := f.form(t, "/optimize", draftForm("", "s", "b"), false)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "add at least one recipient")
	})

	t.Run("success rewrites the draft", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, delivered)
		f.optimizer.On("Optimize", mock.Anything, campaign.EmailDraft{
			Recipients: []string{"a@b.com", "c@d.com"},
			Subject:    "FREE!!!",
			Body:       "buy now",
		}).Return(result(), nil).Once()

		rec := f.form(t, "/optimize", draftForm("a@b.com\nc@d.com", "FREE!!!", "buy now"), true)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `<main id="dashboard">`)
		assert.Contains(t, body, `value="Your March statement"`)
		assert.Contains(t, body, "91<small>/100</small>")
		f.optimizer.AssertExpectations(t)
	})

	t.Run("service failure shows error state", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, delivered)
		f.optimizer.On("Optimize", mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream 503")).Once()

		rec := f.form(t, "/optimize", draftForm("a@b.com", "s", "b"), true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Optimization failed")
		assert.Contains(t, rec.Body.String(), "upstream 503")
		assert.Equal(t, campaign.StatusError, f.campaign.Snapshot().Status)
		assert.Equal(t, "s", f.campaign.Snapshot().Draft.Subject)
	})

	t.Run("service failure without htmx is 502", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, delivered)
		f.optimizer.On("Optimize", mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream 503")).Once()

		rec := f.form(t, "/optimize", draftForm("a@b.com", "s", "b"), false)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "<!doctype html>")
	})
}

func TestDashboard_SendAndStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)
	rec := f.form(t, "/send", draftForm("a@b.com, c@d.com", "Hello", "Body"), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<main id="dashboard">`)
	assert.Contains(t, rec.Body.String(), "readonly")

	f.campaign.Wait()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set(htmx.HeaderHXRequest, "true")
	rec = httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `id="live"`)
	assert.Contains(t, body, "Campaign completed.")
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.Equal(t, 2, strings.Count(body, "badge success"))
	assert.NotContains(t, body, "every 1s")

	assert.Equal(t, 2, strings.Count(body, `hx-swap-oob="true"`))
	assert.Contains(t, body, `<form id="composer"`)
	assert.Contains(t, body, `value="Hello"`)
	assert.NotContains(t, body, "readonly")
}

func TestDashboard_StatusWhileSendingKeepsComposer(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := newFixture(t, mailer.SenderFunc(func(ctx context.Context, _ *mailer.Email) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			return nil
		}
	}))
	defer close(release)

	_, err := f.campaign.SendDraft(campaign.Draft{Recipients: "a@b.com", Subject: "s", Body: "b"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set(htmx.HeaderHXRequest, "true")
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "every 1s")
	assert.NotContains(t, body, `id="composer"`)
}

func TestDashboard_SendWhileOptimizing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)
	original := campaign.Draft{Recipients: "a@b.com", Subject: "orig", Body: "body"}

	started := make(chan struct{})
	release := make(chan struct{})
	f.optimizer.On("Optimize", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, errors.New("upstream 503")).Once()

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- f.form(t, "/optimize", draftForm(original.Recipients, original.Subject, original.Body), true)
	}()
	<-started

	rec := f.form(t, "/send", draftForm("", "", ""), true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#notice", rec.Header().Get(htmx.HeaderHXRetarget))
	assert.Contains(t, rec.Body.String(), "Another operation is in progress")

	snap := f.campaign.Snapshot()
	assert.Equal(t, campaign.StatusOptimizing, snap.Status)
	assert.Equal(t, original, snap.Draft)

	close(release)
	rec = <-done
	assert.Equal(t, http.StatusOK, rec.Code)

	snap = f.campaign.Snapshot()
	assert.Equal(t, campaign.StatusError, snap.Status)
	assert.Equal(t, original, snap.Draft)
	assert.Empty(t, snap.Logs)
}

func TestDashboard_SendWithoutRecipients(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)
	rec := f.form(t, "/send", draftForm("nobody", "Hello", "Body"), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "add at least one recipient")
	assert.Equal(t, campaign.StatusIdle, f.campaign.Snapshot().Status)
}

func TestDashboard_Reset(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)
	f.campaign.UpdateDraft(campaign.Draft{Recipients: "a@b.com", Subject: "s", Body: "b"})

	rec := f.form(t, "/reset", url.Values{}, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0 valid recipients")
	assert.Equal(t, campaign.Draft{}, f.campaign.Snapshot().Draft)
}

func TestAPI_Recipients(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)

	rec := f.do(t, http.MethodPost, "/api/recipients", `{"input":"a@b.com, , bad, c@d.com\nc@d.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Recipients []string `json:"recipients"`
		Count      int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"a@b.com", "c@d.com", "c@d.com"}, out.Recipients)
	assert.Equal(t, 3, out.Count)

	rec = f.do(t, http.MethodPost, "/api/recipients", `{"input":""}`)
	assert.JSONEq(t, `{"recipients":[],"count":0}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/recipients", `{"text":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"bad_request"`)
}

func TestAPI_Campaign(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)

	rec := f.do(t, http.MethodPost, "/api/campaign/send", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"validation_failed"`)

	rec = f.do(t, http.MethodPost, "/api/campaign/draft", `{"recipients":"a@b.com","subject":"s","body":"b"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/campaign/send", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	f.campaign.Wait()

	rec = f.do(t, http.MethodGet, "/api/campaign", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap campaign.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, campaign.StatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, "a@b.com", snap.Logs[0].Email)

	rec = f.do(t, http.MethodPost, "/api/campaign/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, campaign.StatusIdle, snap.Status)
	assert.Empty(t, snap.Logs)
}

func TestAPI_BusyWhileSending(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := newFixture(t, mailer.SenderFunc(func(ctx context.Context, _ *mailer.Email) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			return nil
		}
	}))
	defer close(release)

	f.campaign.UpdateDraft(campaign.Draft{Recipients: "a@b.com", Subject: "s", Body: "b"})
	_, err := f.campaign.Send()
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/campaign/optimize", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"busy"`)

	rec = f.do(t, http.MethodPost, "/api/campaign/send", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.optimizer.AssertNotCalled(t, "Optimize", mock.Anything, mock.Anything)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, delivered)

	rec := f.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_found"`)

	rec = f.do(t, http.MethodGet, "/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found.")

	rec = f.do(t, http.MethodDelete, "/send", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestErrorHandler_Panic(t *testing.T) {
	t.Parallel()

	app := web.New(
		web.WithMiddleware(middlewares.Recover(middlewares.WithRecoverDisablePrintStack())),
		web.WithErrorHandler(handlers.ErrorHandler),
		web.WithHandlers(panicRoute{}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong.","code":"internal"}`, rec.Body.String())
}

type panicRoute struct{}

func (panicRoute) Routes(r web.Router) {
	r.GET("/api/panic", func(web.Context) error { panic("boom") })
}
