package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codefix/internal/backend/backendtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_ValidatesBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://127.0.0.1:5000", "http://127.0.0.1:5000", false},
		{"https://example.ngrok.app/", "https://example.ngrok.app", false},
		{"  http://localhost:5000//  ", "http://localhost:5000", false},
		{"", "", true},
		{"localhost:5000", "", true},
		{"ftp://host", "", true},
		{"http://", "", true},
	}
	for _, tt := range tests {
		c, err := New(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "New(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "New(%q)", tt.in)
		assert.Equal(t, tt.want, c.BaseURL())
	}
}

func TestRun_PostsJSONAndReturnsResult(t *testing.T) {
	srv := backendtest.New(t, backendtest.Result("ok"))
	c, err := New(srv.URL)
	require.NoError(t, err)

	got, err := c.Run(context.Background(), "/completion", "func f() {")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/completion", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.Equal(t, "func f() {", reqs[0].Code)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestRun_AllEndpoints(t *testing.T) {
	srv := backendtest.New(t, backendtest.Echo())
	c, err := New(srv.URL + "/")
	require.NoError(t, err)

	for _, ep := range backendtest.Paths {
		got, err := c.Run(context.Background(), ep, "x")
		require.NoError(t, err)
		assert.Equal(t, ep+":x", got)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler backendtest.Handler
		want    error
	}{
		{"server error", backendtest.Status(http.StatusInternalServerError, `{"detail":"model crashed"}`), ErrStatus},
		{"not found", backendtest.Status(http.StatusNotFound, `{"detail":"Not Found"}`), ErrStatus},
		{"not json", backendtest.Status(http.StatusOK, `<html>oops</html>`), ErrMalformed},
		{"missing result", backendtest.Status(http.StatusOK, `{"output":"x"}`), ErrMalformed},
		{"non-string result", backendtest.Status(http.StatusOK, `{"result":42}`), ErrMalformed},
		{"null body", backendtest.Status(http.StatusOK, `null`), ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backendtest.New(t, tt.handler)
			c, err := New(srv.URL)
			require.NoError(t, err)

			got, err := c.Run(context.Background(), "/debugging", "code")
			assert.Empty(t, got)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_StatusErrorCarriesDetail(t *testing.T) {
	srv := backendtest.New(t, backendtest.Status(http.StatusNotFound, `{"detail":"Not Found"}`))
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Run(context.Background(), "/testcase", "code")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Not Found", se.Detail)
	assert.Contains(t, se.Error(), "404")
}

func TestRun_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.Run(context.Background(), "/completion", "code")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRun_ContextCancelled(t *testing.T) {
	srv := backendtest.New(t, backendtest.Result("late"))
	c, err := New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Run(ctx, "/completion", "code")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRun_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	tests := []struct {
		name string
		opts []Option
	}{
		{"timeout only", []Option{WithTimeout(50 * time.Millisecond)}},
		{"timeout before client", []Option{WithTimeout(50 * time.Millisecond), WithHTTPClient(&http.Client{})}},
		{"client before timeout", []Option{WithHTTPClient(&http.Client{}), WithTimeout(50 * time.Millisecond)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(srv.URL, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, 50*time.Millisecond, c.client.Timeout)

			done := make(chan error, 1)
			go func() {
				_, err := c.Run(context.Background(), "/completion", "code")
				done <- err
			}()
			select {
			case err := <-done:
				assert.ErrorIs(t, err, ErrTransport)
			case <-time.After(5 * time.Second):
				t.Fatal("request was not bounded by the timeout")
			}
		})
	}
}

func TestRun_OversizedResponse(t *testing.T) {
	big := strings.Repeat("x", maxResponseBytes+1024)
	srv := backendtest.New(t, backendtest.Result(big))
	c, err := New(srv.URL)
	require.NoError(t, err)

	out, err := c.Run(context.Background(), "/completion", "code")
	assert.Empty(t, out)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.NotContains(t, err.Error(), "unexpected end of JSON input")

	// A body right at the limit still decodes.
	fits := strings.Repeat("y", maxResponseBytes-len(`{"result":""}`))
	srv.SetHandler(backendtest.Result(fits))
	out, err = c.Run(context.Background(), "/completion", "code")
	require.NoError(t, err)
	assert.Len(t, out, len(fits))
}

func TestRun_RecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	srv := backendtest.New(t, backendtest.Result("ok"))
	c, err := New(srv.URL, WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	_, err = c.Run(context.Background(), "/completion", "abc")
	require.NoError(t, err)

	srv.SetHandler(backendtest.Status(http.StatusBadGateway, ""))
	_, err = c.Run(context.Background(), "/debugging", "abc")
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "codefix.backend.run", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	attrs := map[string]bool{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = true
	}
	assert.True(t, attrs["codefix.endpoint"])
	assert.True(t, attrs["codefix.request.id"])
	assert.True(t, attrs["http.status_code"])
}
