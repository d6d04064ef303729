package rpcclient

import (
	"net/http"
	"testing"
)

func TestProxiedHTTPClientSocks5SetsDialer(t *testing.T) {
	c, err := proxiedHTTPClient("socks5://127.0.0.1:9050")
	if err != nil {
		t.Fatalf("proxiedHTTPClient(socks5): %v", err)
	}
	transport, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", c.Transport)
	}
	if transport.DialContext == nil {
		t.Error("expected a socks5 DialContext to be installed")
	}
	if transport.Proxy != nil {
		t.Error("socks5 proxying should not also set the HTTP CONNECT Proxy field")
	}
}

func TestProxiedHTTPClientHTTPSetsProxyFunc(t *testing.T) {
	c, err := proxiedHTTPClient("http://127.0.0.1:8080")
	if err != nil {
		t.Fatalf("proxiedHTTPClient(http): %v", err)
	}
	transport, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", c.Transport)
	}
	if transport.Proxy == nil {
		t.Error("expected an HTTP CONNECT proxy func to be installed")
	}
	if transport.DialContext != nil {
		t.Error("HTTP proxying should not also install a raw DialContext")
	}
}

func TestProxiedHTTPClientRejectsUnsupportedScheme(t *testing.T) {
	if _, err := proxiedHTTPClient("ftp://127.0.0.1:21"); err == nil {
		t.Error("expected an error for an unsupported proxy scheme")
	}
}

func TestProxiedHTTPClientRejectsMalformedURL(t *testing.T) {
	if _, err := proxiedHTTPClient("://not a url"); err == nil {
		t.Error("expected an error for a malformed proxy URL")
	}
}
