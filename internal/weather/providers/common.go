package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 4 << 20

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errMalformed    = errors.New("malformed upstream response")
)

// upstreamResponse is what a call through the breaker yields. Client errors
// (4xx other than 429) are returned as responses, not breaker failures, so a
// run of unknown city names cannot open the circuit.
type upstreamResponse struct {
	status int
	body   []byte
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON performs a single GET through the circuit breaker and returns the
// body of a 2xx response. Every failure comes back as *weather.UpstreamError.
func getJSON(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	provider, op, rawURL string,
) ([]byte, error) {
	if client == nil {
		return nil, &weather.UpstreamError{Provider: provider, Op: op, Err: errNoHTTPClient}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &weather.UpstreamError{Provider: provider, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return nil, readErr
		}

		out := &upstreamResponse{status: resp.StatusCode, body: body}
		if resp.StatusCode == http.StatusTooManyRequests {
			return out, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return out, errServerError
		}
		return out, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &weather.UpstreamError{Provider: provider, Op: op, Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
	}

	resp, _ := result.(*upstreamResponse)
	if resp != nil && (resp.status < 200 || resp.status >= 300) {
		return nil, &weather.UpstreamError{
			Provider:   provider,
			Op:         op,
			StatusCode: resp.status,
			Body:       string(resp.body),
			Err:        err,
		}
	}
	if err != nil {
		return nil, &weather.UpstreamError{Provider: provider, Op: op, Timeout: isTimeout(ctx, err), Err: err}
	}
	if resp == nil {
		return nil, &weather.UpstreamError{Provider: provider, Op: op, Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}

	return resp.body, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func malformed(provider, op string, err error) error {
	return &weather.UpstreamError{Provider: provider, Op: op, Err: fmt.Errorf("%w: %v", errMalformed, err)}
}

func checkCoordinates(provider string, c weather.Coordinates) (weather.Coordinates, error) {
	if !c.Valid() {
		return weather.Coordinates{}, malformed(provider, "geocode", fmt.Errorf("coordinates out of range: lat=%f lon=%f", c.Lat, c.Lon))
	}
	return c, nil
}
