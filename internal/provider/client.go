package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/httputil"
	"github.com/quantora/marketlens/pkg/logger"
)

// Client talks to the upstream market data source: an HTML constituent
// listing for the registry and a JSON quote API for bars and
// fundamentals. All requests go through the shared rate-limited
// HTTP client.
type Client struct {
	http *httputil.Client
	cfg  config.ProviderConfig
	log  *logger.Logger
}

// NewClient creates an upstream client
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http: httputil.New(cfg, log),
		cfg:  cfg.Provider,
		log:  log,
	}
}

// get fetches a URL and returns its body, treating any non-200 status
// as an error
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}
