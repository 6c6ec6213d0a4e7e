package ratelimit

import (
	"net/http"
)

// Doer performs HTTP requests. Both provider clients accept one.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client gates every request of Next through Bucket.
type Client struct {
	Next   Doer
	Bucket *TokenBucket
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.Bucket != nil {
		if err := c.Bucket.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	return c.Next.Do(req)
}
