package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// DefaultHTTPTimeout bounds a single remote lookup.
const DefaultHTTPTimeout = 30 * time.Second

type httpStrategy struct {
	base    string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// HTTP resolves URNs by fetching <base>/<namespace>/<version>/<Name>.ttl, for
// example from a raw GitHub checkout of a models repository.
func HTTP(base string, client *http.Client, opts ...Option) Strategy {
	o := newOptions(opts)
	if client == nil {
		client = &http.Client{}
	}
	return &httpStrategy{
		base:    strings.TrimSuffix(base, "/"),
		client:  client,
		timeout: DefaultHTTPTimeout,
		logger:  o.logger,
	}
}

func (s *httpStrategy) Name() string { return "http(" + s.base + ")" }

func (s *httpStrategy) Resolve(ctx context.Context, u urn.URN) (Resolution, error) {
	if s.base == "" {
		return Resolution{}, errors.New("resolver: http base url is required")
	}
	target := s.base + "/" + relativePath(u)
	data, status, err := fetch(ctx, s.client, target, s.timeout)
	if err != nil {
		return Resolution{}, err
	}
	if status == http.StatusNotFound {
		return Resolution{}, notFound(u, s.base)
	}
	if status < 200 || status >= 300 {
		return Resolution{}, fmt.Errorf("resolver: GET %s: unexpected status %d", target, status)
	}
	s.logger.Debug("resolved model over http", "urn", u.String(), "location", target)
	return Resolution{Location: target, Content: data}, nil
}

// fetch performs a GET honouring timeout and returns the body and status.
func fetch(ctx context.Context, client *http.Client, target string, timeout time.Duration) ([]byte, int, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "text/turtle, text/plain;q=0.8, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("resolver: GET %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}
