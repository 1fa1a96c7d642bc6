// Package httpclient fetches remote documents such as ingredient lists with
// SSRF protection. Loopback and private addresses are refused unless a test
// explicitly allows them.
package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/larder/errors"
)

// Defaults for New
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 5
	DefaultMaxBytes     = 1 << 20
)

// SaferClient is an HTTP client that refuses to reach the local network
type SaferClient struct {
	client       *http.Client
	allowPrivate bool
	maxRedirects int
	maxBytes     int64
}

// Option configures a SaferClient
type Option func(*SaferClient)

// WithTimeout bounds each request, including reading the body
func WithTimeout(d time.Duration) Option {
	return func(c *SaferClient) { c.client.Timeout = d }
}

// WithMaxRedirects limits how many redirects are followed
func WithMaxRedirects(n int) Option {
	return func(c *SaferClient) { c.maxRedirects = n }
}

// WithMaxBytes caps the size of a fetched body
func WithMaxBytes(n int64) Option {
	return func(c *SaferClient) { c.maxBytes = n }
}

// AllowPrivateNetworks disables address filtering. Only tests that talk to
// an httptest server on loopback should use it.
func AllowPrivateNetworks() Option {
	return func(c *SaferClient) { c.allowPrivate = true }
}

// New returns a client with SSRF protection enabled
func New(opts ...Option) *SaferClient {
	c := &SaferClient{
		client:       &http.Client{Timeout: DefaultTimeout},
		maxRedirects: DefaultMaxRedirects,
		maxBytes:     DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return errors.Newf("stopped after %d redirects", c.maxRedirects)
		}
		if err := c.validate(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	if !c.allowPrivate {
		// Resolved addresses are checked again at dial time (DNS rebinding)
		dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
		c.client.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, errors.Wrap(err, "invalid address")
				}
				ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to resolve host %q", host)
				}
				for _, ip := range ips {
					if IsPrivate(ip) {
						return nil, errors.Newf("private address blocked: %s", ip)
					}
				}
				if len(ips) == 0 {
					return nil, errors.Newf("no addresses for host %q", host)
				}
				return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
			},
			TLSHandshakeTimeout: 10 * time.Second,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	return c
}

// ValidateURL parses raw and checks it against the client's policy
func (c *SaferClient) ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := c.validate(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *SaferClient) validate(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return errors.Newf("scheme %q not allowed", u.Scheme)
	}
	if u.User != nil {
		return errors.New("URL must not carry credentials")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("URL missing hostname")
	}
	if c.allowPrivate {
		return nil
	}
	if IsLocalhost(host) {
		return errors.New("localhost access blocked")
	}
	if ip, err := netip.ParseAddr(host); err == nil && IsPrivate(ip) {
		return errors.Newf("private address blocked: %s", host)
	}
	return nil
}

// Fetch GETs raw and returns the body. Non-200 responses and bodies larger
// than the configured limit are errors.
func (c *SaferClient) Fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := c.ValidateURL(raw)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", u.Redacted())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch %s: unexpected status %s", u.Redacted(), resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", u.Redacted())
	}
	if int64(len(body)) > c.maxBytes {
		return nil, errors.Newf("fetch %s: body exceeds %d bytes", u.Redacted(), c.maxBytes)
	}
	return body, nil
}

// IsPrivate reports whether ip is anything other than a public unicast address
func IsPrivate(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("fec0::/10"),
	netip.MustParsePrefix("2001:db8::/32"),
}

// IsLocalhost reports whether host names the local machine
func IsLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "localhost" ||
		host == "localhost.localdomain" ||
		strings.HasSuffix(host, ".localhost")
}
