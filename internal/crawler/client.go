package crawler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects bounds redirect chains.
const maxRedirects = 10

// ClientOption configures the HTTP client built by NewHTTPClient.
type ClientOption func(*clientConfig)

type clientConfig struct {
	proxyAddress string
	siteHost     string
	cookie       string
	headers      map[string]string
}

// WithProxy routes all connections through the SOCKS5 proxy at address
// ("host:port").
func WithProxy(address string) ClientOption {
	return func(c *clientConfig) {
		c.proxyAddress = address
	}
}

// WithSiteHost limits cookie and header injection to requests for host.
// A host with a port ("example.com:8443") must match the port as well.
// Without a site host nothing is injected.
func WithSiteHost(host string) ClientOption {
	return func(c *clientConfig) {
		c.siteHost = strings.ToLower(host)
	}
}

// WithCookie adds a raw cookie string ("name=value; other=value") to
// requests for the site host.
func WithCookie(cookie string) ClientOption {
	return func(c *clientConfig) {
		c.cookie = cookie
	}
}

// WithHeaders sets extra headers on requests for the site host.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *clientConfig) {
		c.headers = headers
	}
}

// NewHTTPClient creates the HTTP client used for page and stylesheet
// fetches.
//
// Design decision: cookies and headers are injected by a RoundTripper so
// that same-site redirects and stylesheets carry them. Requests to any
// other host (CDNs, font services, cross-site redirects) never do.
func NewHTTPClient(timeout time.Duration, opts ...ClientOption) (*http.Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 30 * time.Second

	if cfg.proxyAddress != "" {
		if !isValidProxyAddress(cfg.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", cfg.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	var rt http.RoundTripper = transport
	if cfg.cookie != "" || len(cfg.headers) > 0 {
		rt = &headerInjectingTransport{
			base:     transport,
			siteHost: cfg.siteHost,
			cookie:   cfg.cookie,
			headers:  cfg.headers,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// isValidProxyAddress checks for a non-empty host and a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport adds a cookie and fixed headers to requests for
// one host.
type headerInjectingTransport struct {
	base     http.RoundTripper
	siteHost string
	cookie   string
	headers  map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.sameSite(req) {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}

// sameSite reports whether req targets the configured site host.
func (t *headerInjectingTransport) sameSite(req *http.Request) bool {
	if t.siteHost == "" || req.URL == nil {
		return false
	}
	if _, _, err := net.SplitHostPort(t.siteHost); err == nil {
		return strings.EqualFold(req.URL.Host, t.siteHost)
	}
	return strings.EqualFold(req.URL.Hostname(), t.siteHost)
}
