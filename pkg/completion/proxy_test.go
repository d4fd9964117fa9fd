package completion

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientWithoutProxy(t *testing.T) {
	client, err := NewHTTPClient("")
	require.NoError(t, err)
	transport := client.Transport.(*http.Transport)
	assert.Nil(t, transport.Proxy)
}

func TestNewHTTPClientHTTPProxy(t *testing.T) {
	for _, proxyURL := range []string{"http://proxy.local:8080", "https://proxy.local:8443"} {
		client, err := NewHTTPClient(proxyURL)
		require.NoError(t, err)

		transport := client.Transport.(*http.Transport)
		require.NotNil(t, transport.Proxy)
		req, _ := http.NewRequest(http.MethodGet, "https://api.openai.com/v1/chat/completions", nil)
		u, err := transport.Proxy(req)
		require.NoError(t, err)
		expected, _ := url.Parse(proxyURL)
		assert.Equal(t, expected, u)
	}
}

func TestNewHTTPClientSocksProxy(t *testing.T) {
	for _, proxyURL := range []string{"socks5://127.0.0.1:1080", "socks://127.0.0.1:1080"} {
		client, err := NewHTTPClient(proxyURL)
		require.NoError(t, err)
		transport := client.Transport.(*http.Transport)
		assert.Nil(t, transport.Proxy)
		assert.NotNil(t, transport.DialContext)
	}
}

func TestNewHTTPClientBadProxyType(t *testing.T) {
	_, err := NewHTTPClient("ftp://proxy.local")
	assert.EqualError(t, err, "bad proxy type: ftp")
}

func TestOpenAIThroughHTTPProxy(t *testing.T) {
	var proxiedHost string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHost = r.URL.Host
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"via proxy"}}]}`)
	}))
	defer proxy.Close()

	client, err := NewHTTPClient(proxy.URL)
	require.NoError(t, err)

	model := NewOpenAIWithConfig("key", "gpt-4", WithBaseURL("http://api.example.test/v1"), WithHTTPClient(client))
	msg, err := model.Completions(context.Background(), CompletionParams{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "via proxy", msg.Content)
	assert.Equal(t, "api.example.test", proxiedHost)
}
