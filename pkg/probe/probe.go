// Package probe requests guarded pages on a running server and reports
// where the route guard sent each request.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/spendahead/pkg/logger"
)

type Result struct {
	Path     string `json:"path"`
	Status   int    `json:"status"`
	Location string `json:"location,omitempty"`
}

func (r Result) Redirected() bool {
	return r.Status >= 300 && r.Status < 400
}

func (r Result) String() string {
	if r.Redirected() {
		return fmt.Sprintf("%-28s %d -> %s", r.Path, r.Status, r.Location)
	}
	return fmt.Sprintf("%-28s %d", r.Path, r.Status)
}

type prober struct {
	client *resty.Client
}

// New builds a prober for baseURL. When cookieValue is set every request
// carries it under cookieName.
func New(baseURL, cookieName, cookieValue string, timeout time.Duration) *prober {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	if cookieValue != "" {
		c.SetCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	return &prober{client: c}
}

func (p *prober) Probe(ctx context.Context, path string) (*Result, error) {
	resp, err := p.client.R().SetContext(ctx).Get(path)
	if err != nil {
		logger.Log(ctx).Errorf("probe: failed sending request to `%s`, %v", path, err)
		return nil, fmt.Errorf("probe: %s, %w", path, err)
	}
	return &Result{
		Path:     path,
		Status:   resp.StatusCode(),
		Location: resp.Header().Get("Location"),
	}, nil
}

// ProbeAll visits every path in order and keeps going past failures.
func (p *prober) ProbeAll(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, 0, len(paths))
	var errs []error
	for _, path := range paths {
		res, err := p.Probe(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
