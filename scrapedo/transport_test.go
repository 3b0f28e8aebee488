package scrapedo

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestHTTPTransportDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(body))
		w.Header().Add("Set-Cookie", "a=1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer srv.Close()

	d := &Descriptor{
		Mode:         ModeDirect,
		Method:       http.MethodPost,
		URL:          srv.URL + "?token=tok&url=https%3A%2F%2Fexample.com",
		Body:         "payload",
		Timeout:      5 * time.Second,
		MaxRedirects: 5,
	}
	raw, err := NewHTTPTransport().Do(context.Background(), d, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, raw.StatusCode)
	assert.Equal(t, "<p>ok</p>", string(raw.Body))
	assert.Equal(t, []string{"a=1"}, raw.Header.Values("Set-Cookie"))
}

func TestHTTPTransportStatusFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	_, err := NewHTTPTransport().Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: srv.URL, Timeout: 5 * time.Second, MaxRedirects: 5,
	}, nil)

	var f *Fault
	require.ErrorAs(t, err, &f)
	assert.Equal(t, http.StatusTooManyRequests, f.StatusCode)
	assert.Equal(t, "30", f.Header.Get("Retry-After"))
	assert.Equal(t, "slow down", string(f.Body))
	assert.False(t, f.Aborted)
}

func TestHTTPTransportRedirectLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/final" {
			_, _ = w.Write([]byte("done"))
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer srv.Close()

	tr := NewHTTPTransport()

	raw, err := tr.Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: srv.URL + "/start", Timeout: 5 * time.Second, MaxRedirects: 5,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", string(raw.Body))

	hits = 0
	_, err = tr.Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: srv.URL + "/start", Timeout: 5 * time.Second, MaxRedirects: 0,
	}, nil)
	var f *Fault
	require.ErrorAs(t, err, &f)
	assert.Equal(t, http.StatusFound, f.StatusCode)
	assert.Equal(t, 1, hits)
}

func TestHTTPTransportTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPTransport().Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: srv.URL, Timeout: 50 * time.Millisecond,
	}, nil)

	var f *Fault
	require.ErrorAs(t, err, &f)
	assert.True(t, f.Aborted)
	assert.Zero(t, f.StatusCode)
}

func TestHTTPTransportContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPTransport().Do(ctx, &Descriptor{
		Method: http.MethodGet, URL: srv.URL, Timeout: time.Second,
	}, nil)
	var f *Fault
	require.ErrorAs(t, err, &f)
	assert.True(t, f.Aborted)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHTTPTransportConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewHTTPTransport().Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: addr, Timeout: time.Second,
	}, nil)
	var f *Fault
	require.ErrorAs(t, err, &f)
	assert.False(t, f.Aborted)
	assert.Zero(t, f.StatusCode)
}

func TestHTTPTransportProxy(t *testing.T) {
	// The forward proxy receives absolute-form requests for plain http targets.
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "http://target.example/page", r.URL.String())
		auth := strings.TrimPrefix(r.Header.Get("Proxy-Authorization"), "Basic ")
		creds, err := base64.StdEncoding.DecodeString(auth)
		assert.NoError(t, err)
		assert.Equal(t, "tok:render=true", string(creds))
		_, _ = w.Write([]byte("via proxy"))
	}))
	defer proxy.Close()

	d := &Descriptor{
		Mode:     ModeProxy,
		Method:   http.MethodGet,
		URL:      "http://target.example/page",
		ProxyURL: "http://tok:render=true@" + strings.TrimPrefix(proxy.URL, "http://"),
		Timeout:  5 * time.Second,
	}
	raw, err := NewHTTPTransport(WithInsecureTunnel(false)).Do(context.Background(), d, nil)
	require.NoError(t, err)
	assert.Equal(t, "via proxy", string(raw.Body))
}

func TestHTTPTransportTracing(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Traceparent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tr := NewHTTPTransport(WithTracerProvider(tp, propagation.TraceContext{}))
	_, err := tr.Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: srv.URL, Timeout: 5 * time.Second, MaxRedirects: 5,
	}, nil)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())

	sc := spans[0].SpanContext()
	require.True(t, sc.IsValid())
	assert.Equal(t, "00-"+sc.TraceID().String()+"-"+sc.SpanID().String()+"-01", <-got)
}

func TestHTTPTransportTracingDisabled(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Traceparent")
	}))
	defer srv.Close()

	_, err := NewHTTPTransport().Do(context.Background(), &Descriptor{
		Method: http.MethodGet, URL: srv.URL, Timeout: 5 * time.Second, MaxRedirects: 5,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, <-got)
}

func TestHTTPTransportBadProxyURL(t *testing.T) {
	_, err := NewHTTPTransport().Do(context.Background(), &Descriptor{
		Mode: ModeProxy, Method: http.MethodGet, URL: "http://x", ProxyURL: "http://%zz",
	}, nil)
	require.Error(t, err)
	var f *Fault
	assert.False(t, errors.As(err, &f))
}

func TestFaultError(t *testing.T) {
	assert.Equal(t, "upstream responded 404", (&Fault{StatusCode: 404}).Error())
	assert.Contains(t, (&Fault{Aborted: true, Err: context.DeadlineExceeded}).Error(), "aborted")
	assert.Contains(t, (&Fault{Err: io.EOF}).Error(), "request failed")
}
