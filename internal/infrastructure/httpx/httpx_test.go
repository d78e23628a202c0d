package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClientRT(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt, Timeout: 2 * time.Second}
}

func reply(r *http.Request, code int, body string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header), Request: r}
}

func TestDoJSON_Retry500Then200(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return reply(r, 500, "err"), nil
		}
		return reply(r, 200, `{"ok": true}`), nil
	}))}
	var out struct {
		OK bool `json:"ok"`
	}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, c.DoJSON(ctx, req, &out))
	require.True(t, out.OK)
	require.GreaterOrEqual(t, calls, 2)
}

type tempTimeoutErr struct{}

func (tempTimeoutErr) Error() string   { return "timeout" }
func (tempTimeoutErr) Timeout() bool   { return true }
func (tempTimeoutErr) Temporary() bool { return true }

func TestDoJSON_RetryNetTimeoutThen200(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			var ne net.Error = tempTimeoutErr{}
			return nil, ne
		}
		return reply(r, 200, `{"ok": true}`), nil
	}))}
	var out map[string]bool
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, c.DoJSON(ctx, req, &out))
	require.True(t, out["ok"])
}

func TestDoJSON_NoRetryOn400(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return reply(r, 400, "bad"), nil
	}))}
	var out any
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	require.Error(t, c.DoJSON(context.Background(), req, &out))
	require.Equal(t, 1, calls)
}

func TestDoJSON_DecodeErrorIsPermanent(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBufferString("{x")), Header: make(http.Header), Request: r}, nil
	}))}
	var out map[string]any
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)

	err := c.DoJSON(context.Background(), req, &out)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, 1, calls)
}

func TestDoRaw_ReturnsBodyAndHeaders(t *testing.T) {
	c := &Client{UserAgent: "phoneprice-gateway", HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "phoneprice-gateway", r.Header.Get("User-Agent"))
		return reply(r, 200, "<Tarih_Date/>"), nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com/today.xml", nil)

	raw, err := c.DoRaw(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "<Tarih_Date/>", string(raw))
}

func TestDo_StopsWhenContextEnds(t *testing.T) {
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		return reply(r, 503, "down"), nil
	}))}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.DoRaw(ctx, req)
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}
