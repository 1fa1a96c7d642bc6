package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
	assert.Equal(t, DefaultMaxRedirects, c.maxRedirects)
	assert.Equal(t, int64(DefaultMaxBytes), c.maxBytes)
	assert.False(t, c.allowPrivate)

	c = New(WithTimeout(time.Second), WithMaxRedirects(1), WithMaxBytes(10))
	assert.Equal(t, time.Second, c.client.Timeout)
	assert.Equal(t, 1, c.maxRedirects)
	assert.Equal(t, int64(10), c.maxBytes)
}

func TestValidateURL(t *testing.T) {
	c := New()

	tests := []struct {
		name        string
		url         string
		errContains string
	}{
		{name: "https", url: "https://example.com/pantry.yaml"},
		{name: "http", url: "http://example.com"},
		{name: "file scheme", url: "file:///etc/passwd", errContains: "scheme"},
		{name: "ftp scheme", url: "ftp://example.com/x", errContains: "scheme"},
		{name: "credentials", url: "http://user:pw@example.com/", errContains: "credentials"},
		{name: "no host", url: "http:///path", errContains: "hostname"},
		{name: "localhost", url: "http://localhost:8080/", errContains: "localhost"},
		{name: "dev localhost", url: "http://app.localhost/", errContains: "localhost"},
		{name: "loopback", url: "http://127.0.0.1/", errContains: "private"},
		{name: "rfc1918", url: "http://192.168.1.10/", errContains: "private"},
		{name: "metadata", url: "http://169.254.169.254/latest", errContains: "private"},
		{name: "ipv6 loopback", url: "http://[::1]/", errContains: "private"},
		{name: "ipv6 ula", url: "http://[fd00::1]/", errContains: "private"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ValidateURL(tt.url)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIsPrivate(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"2606:4700:4700::1111", false},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.0.1", true},
		{"127.0.0.1", true},
		{"0.0.0.0", true},
		{"100.64.0.1", true},
		{"224.0.0.1", true},
		{"::ffff:10.0.0.1", true},
		{"fe80::1", true},
		{"2001:db8::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.private, IsPrivate(netip.MustParseAddr(tt.ip)))
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	assert.True(t, IsLocalhost("LOCALHOST"))
	assert.True(t, IsLocalhost("localhost."))
	assert.True(t, IsLocalhost("api.localhost"))
	assert.False(t, IsLocalhost("localhost.example.com"))
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pantry.yaml":
			w.Write([]byte("- name: Salt\n"))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 64)))
		case "/redirect":
			http.Redirect(w, r, "/pantry.yaml", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	ctx := context.Background()

	_, err := New().Fetch(ctx, ts.URL+"/pantry.yaml")
	require.Error(t, err, "loopback must be refused by default")

	c := New(AllowPrivateNetworks(), WithMaxBytes(32))

	body, err := c.Fetch(ctx, ts.URL+"/pantry.yaml")
	require.NoError(t, err)
	assert.Equal(t, "- name: Salt\n", string(body))

	body, err = c.Fetch(ctx, ts.URL+"/redirect")
	require.NoError(t, err)
	assert.Equal(t, "- name: Salt\n", string(body))

	_, err = c.Fetch(ctx, ts.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = c.Fetch(ctx, ts.URL+"/big")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFetchRedirectLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
	}))
	defer ts.Close()

	c := New(AllowPrivateNetworks(), WithMaxRedirects(2))
	_, err := c.Fetch(context.Background(), ts.URL+"/a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 2 redirects")
}
