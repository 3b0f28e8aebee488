package scrapedo

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/logging"
)

// Transport executes one Descriptor as a single HTTP exchange.
//
// A non-2xx answer, a timeout or a connection failure is returned as a
// *Fault. Any other error is a programming fault and propagates as is.
type Transport interface {
	Do(ctx context.Context, d *Descriptor, log *zap.Logger) (*RawResponse, error)
}

// RawResponse is a successful upstream answer.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fault is a transport-level failure. StatusCode is zero when no response
// was received. Aborted is set when the exchange timed out or the caller
// gave up on it.
type Fault struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Aborted    bool
	Err        error
}

func (f *Fault) Error() string {
	switch {
	case f.StatusCode != 0:
		return fmt.Sprintf("upstream responded %d", f.StatusCode)
	case f.Aborted:
		return fmt.Sprintf("request aborted: %v", f.Err)
	default:
		return fmt.Sprintf("request failed: %v", f.Err)
	}
}

func (f *Fault) Unwrap() error { return f.Err }

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithInsecureTunnel controls TLS peer verification of the proxied hop.
func WithInsecureTunnel(insecure bool) HTTPTransportOption {
	return func(t *HTTPTransport) { t.insecureTunnel = insecure }
}

// WithTracing wraps outbound round trips in OpenTelemetry spans using the
// global provider and propagator.
func WithTracing(enabled bool) HTTPTransportOption {
	return func(t *HTTPTransport) { t.tracing = enabled }
}

// WithTracerProvider enables tracing with an explicit provider and
// propagator instead of the globals.
func WithTracerProvider(tp trace.TracerProvider, p propagation.TextMapPropagator) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.tracing = true
		t.otelOpts = append(t.otelOpts, otelhttp.WithTracerProvider(tp), otelhttp.WithPropagators(p))
	}
}

// HTTPTransport is the resty-backed Transport. Direct-mode calls share one
// connection pool; proxy-mode calls get a fresh transport bound to their
// own proxy credentials, closed when the call returns.
type HTTPTransport struct {
	base           *http.Transport
	insecureTunnel bool
	tracing        bool
	otelOpts       []otelhttp.Option
}

// NewHTTPTransport creates a transport with the tunnel verifying nothing
// until told otherwise.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		base:           http.DefaultTransport.(*http.Transport).Clone(),
		insecureTunnel: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, d *Descriptor, log *zap.Logger) (*RawResponse, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rt, cleanup, err := t.roundTripper(d)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	client := resty.NewWithClient(&http.Client{Transport: rt}).
		SetTimeout(d.Timeout).
		SetLogger(log.Sugar()).
		SetRedirectPolicy(maxRedirectPolicy(d.MaxRedirects))

	req := client.R().SetContext(ctx)
	if d.Body != "" {
		req.SetBody(d.Body)
	}

	log.Debug("outbound request",
		zap.String("method", d.Method),
		zap.String("url", logging.MaskURL(d.URL)),
		zap.Bool("has_body", d.Body != ""),
	)
	if d.Mode == ModeProxy {
		log.Debug("using proxy tunnel", zap.String("proxy", logging.MaskURL(d.ProxyURL)))
	}

	start := time.Now()
	resp, err := req.Execute(d.Method, d.URL)
	if err != nil {
		aborted := isAbort(err)
		log.Warn("outbound request failed",
			zap.Error(err),
			zap.Bool("aborted", aborted),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, &Fault{Aborted: aborted, Err: err}
	}

	body := resp.Body()
	log.Debug("outbound response",
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &Fault{
			StatusCode: resp.StatusCode(),
			Header:     resp.Header(),
			Body:       body,
		}
	}
	return &RawResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       body,
	}, nil
}

func (t *HTTPTransport) roundTripper(d *Descriptor) (http.RoundTripper, func(), error) {
	var (
		rt      http.RoundTripper = t.base
		cleanup                   = func() {}
	)

	if d.Mode == ModeProxy {
		proxyURL, err := url.Parse(d.ProxyURL)
		if err != nil {
			return nil, nil, fmt.Errorf("scrapedo: parse proxy url: %w", err)
		}
		tr := t.base.Clone()
		// Only the explicit tunnel is used; environment proxies are ignored.
		tr.Proxy = http.ProxyURL(proxyURL)
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: t.insecureTunnel} //nolint:gosec
		rt = tr
		cleanup = tr.CloseIdleConnections
	}

	if t.tracing {
		rt = otelhttp.NewTransport(rt, t.otelOpts...)
	}
	return rt, cleanup, nil
}

// maxRedirectPolicy follows up to max redirects and then hands the last
// response back instead of failing.
func maxRedirectPolicy(max int) resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(_ *http.Request, via []*http.Request) error {
		if len(via) > max {
			return http.ErrUseLastResponse
		}
		return nil
	})
}

func isAbort(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
