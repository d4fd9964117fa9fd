package completion

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

// NewHTTPClient returns an HTTP client that sends its requests through
// proxyURL. http and https URLs select an HTTP proxy, socks and socks5 URLs a
// SOCKS5 proxy. An empty proxyURL returns a client without proxy.
func NewHTTPClient(proxyURL string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// the environment is not consulted, only proxyURL decides
	transport.Proxy = nil

	if proxyURL == "" {
		return &http.Client{Transport: transport}, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid proxy url")
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks", "socks5":
		u.Scheme = "socks5"
		direct := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		dialer, err := proxy.FromURL(u, direct)
		if err != nil {
			return nil, errors.Wrap(err, "could not create socks dialer")
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("socks dialer does not support contexts")
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return contextDialer.DialContext(ctx, network, addr)
		}
	default:
		return nil, errors.Errorf("bad proxy type: %s", u.Scheme)
	}

	return &http.Client{Transport: transport}, nil
}
