package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
	"net"
	"net/http"
	"net/url"
	"strings"
)

const maxBodyBytes = 4 << 20

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	params url.Values,
) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if id := obs.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	return req, nil
}

// get performs one GET and returns the body of a 2xx response. Every failure
// comes back as a *domain.FetchError.
func (c *Client) get(ctx context.Context, op string, path string, params url.Values) (_ []byte, err error) {
	defer obs.Time(ctx, "catalog."+op)(&err)

	req, err := c.newRequest(ctx, http.MethodGet, path, params)
	if err != nil {
		return nil, &domain.FetchError{Op: op, Err: err}
	}

	resp, err := c.session.Do(req)
	if err != nil {
		fe := transportError(op, err)
		obs.CatalogRequests.WithLabelValues(op, outcome(fe)).Inc()
		return nil, fe
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		fe := transportError(op, err)
		obs.CatalogRequests.WithLabelValues(op, outcome(fe)).Inc()
		return nil, fe
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := &domain.FetchError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
		if resp.StatusCode == http.StatusNotFound {
			fe.Err = domain.ErrNotFound
		}
		obs.CatalogRequests.WithLabelValues(op, outcome(fe)).Inc()
		return nil, fe
	}

	obs.CatalogRequests.WithLabelValues(op, "ok").Inc()
	return body, nil
}

// transportError maps network failures, flagging deadline overruns as
// domain.ErrTimeout.
func transportError(op string, err error) *domain.FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.FetchError{Op: op, Err: errors.Join(domain.ErrTimeout, err)}
	}
	return &domain.FetchError{Op: op, Err: err}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	}
	return "error"
}
