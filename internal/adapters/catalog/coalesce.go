package catalog

import (
	"context"
	"localfinder/internal/platform/obs"
	"net/url"
	"time"
)

// request is one cacheable GET. key is the canonical identity shared by
// identical requests.
type request struct {
	op     string
	key    string
	path   string
	params url.Values
	ttl    time.Duration
}

// fetch returns the body for r from the response cache, from an identical
// call already in flight, or from a new network call. The shared call is
// detached from any one caller's cancellation and bounded by the client
// timeout; each caller still stops waiting when its own ctx ends.
func (c *Client) fetch(ctx context.Context, r request) ([]byte, error) {
	if body, ok := c.cached(ctx, r); ok {
		return body, nil
	}

	ch := c.flight.DoChan(r.key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		if body, ok := c.cached(callCtx, r); ok {
			return body, nil
		}

		body, err := c.get(callCtx, r.op, r.path, r.params)
		if err != nil {
			return nil, err
		}

		if err := c.responses.Set(callCtx, r.key, body, r.ttl); err != nil {
			obs.Logger("catalog").Warnw("response cache write failed", "key", r.key, "err", err)
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, transportError(r.op, ctx.Err())
	case res := <-ch:
		if res.Shared {
			obs.CatalogCoalesced.WithLabelValues(r.op).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) cached(ctx context.Context, r request) ([]byte, bool) {
	body, ok, err := c.responses.Get(ctx, r.key)
	if err != nil {
		obs.Logger("catalog").Warnw("response cache read failed", "key", r.key, "err", err)
		return nil, false
	}
	if ok {
		obs.CatalogCacheHits.WithLabelValues(r.op).Inc()
	}
	return body, ok
}

// invalidate drops a cached body that could not be decoded.
func (c *Client) invalidate(ctx context.Context, r request) {
	if err := c.responses.Delete(ctx, r.key); err != nil {
		obs.Logger("catalog").Warnw("response cache delete failed", "key", r.key, "err", err)
	}
}
