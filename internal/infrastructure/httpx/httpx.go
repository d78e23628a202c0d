package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxBody caps what we read from any upstream; the central bank feed is the
// largest document we fetch and stays well below this.
const maxBody = 4 << 20

type Client struct {
	HTTP      *http.Client
	Token     string
	UserAgent string
	// MaxElapsed bounds the whole retry sequence; the caller's context still wins.
	MaxElapsed time.Duration
}

// DecodeError marks a payload that arrived but could not be parsed.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return "decode response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(out); err != nil {
			return &DecodeError{Err: err}
		}
		return nil
	})
}

// DoRaw returns the response body of a 200 answer.
func (c *Client) DoRaw(ctx context.Context, req *http.Request) ([]byte, error) {
	var raw []byte
	err := c.do(ctx, req, func(body io.Reader) error {
		b, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		raw = b
		return nil
	})
	return raw, err
}

func (c *Client) do(ctx context.Context, req *http.Request, read func(io.Reader) error) error {
	req = req.WithContext(ctx)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second
	if c.MaxElapsed > 0 {
		exp.MaxElapsedTime = c.MaxElapsed
	}

	op := func() error {
		resp, err := hc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if err := read(io.LimitReader(resp.Body, maxBody)); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}
