// internal/timevarying/client.go
package timevarying

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"time"

	"exposure-risk-workers/internal/common/errors"
	httpclient "exposure-risk-workers/internal/common/http"
)

// Client calls the time-varying risk service. It never retries.
type Client struct {
	http    *httpclient.Client
	url     string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    httpclient.NewClient(timeout),
		url:     strings.TrimRight(baseURL, "/") + Endpoint,
		timeout: timeout,
	}
}

// Project posts req and returns the decoded response. Failures come back
// as *errors.StandardError with TIME_VARYING_TIMEOUT or
// TIME_VARYING_SERVICE_FAILED; a cancelled ctx is returned unwrapped.
func (c *Client) Project(ctx context.Context, req Request) (*Response, error) {
	var resp Response
	err := c.http.PostJSON(ctx, c.url, req, &resp)
	switch {
	case err == nil:
	case stderrors.Is(err, context.Canceled):
		return nil, err
	case stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return nil, errors.NewTimeVaryingTimeoutError(c.timeout)
	default:
		return nil, errors.NewTimeVaryingServiceFailedError(err)
	}

	if err := resp.validate(); err != nil {
		return nil, errors.NewTimeVaryingServiceFailedError(err)
	}
	return &resp, nil
}

func (r *Response) validate() error {
	if math.IsNaN(r.TimeVaryingRisk) || r.TimeVaryingRisk < 0 || r.TimeVaryingRisk > 1 {
		return fmt.Errorf("time_varying_risk %v outside [0,1]", r.TimeVaryingRisk)
	}
	for _, p := range r.DailySequence {
		if math.IsNaN(p.CumulativeRisk) || p.CumulativeRisk < 0 || p.CumulativeRisk > 1 {
			return fmt.Errorf("day %d: cumulative_risk %v outside [0,1]", p.Day, p.CumulativeRisk)
		}
	}
	return nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}
