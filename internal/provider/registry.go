package provider

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantora/marketlens/internal/contracts"
)

// FetchRegistry scrapes the index constituent listing and returns the
// current security registry.
func (c *Client) FetchRegistry(ctx context.Context) ([]*contracts.Security, error) {
	body, err := c.get(ctx, c.cfg.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry: %w", err)
	}
	defer body.Close()

	secs, err := parseConstituents(body)
	if err != nil {
		return nil, err
	}

	c.log.WithField("count", len(secs)).Info("Fetched security registry")
	return secs, nil
}

// parseConstituents extracts the registry from the listing page. The
// constituents table carries ticker, company name, sector and
// sub-industry in its first four columns.
func parseConstituents(r io.Reader) ([]*contracts.Security, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry page: %w", err)
	}

	var secs []*contracts.Security
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		ticker := normalizeTicker(strings.TrimSpace(cells.Eq(0).Text()))
		if ticker == "" {
			return
		}
		secs = append(secs, &contracts.Security{
			Ticker:   ticker,
			Name:     strings.TrimSpace(cells.Eq(1).Text()),
			Sector:   strings.TrimSpace(cells.Eq(2).Text()),
			Industry: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})

	if len(secs) == 0 {
		return nil, fmt.Errorf("registry page: %w", contracts.ErrMalformed)
	}
	return secs, nil
}

// normalizeTicker maps listing-page share-class notation (BRK.B) onto
// the quote API's form (BRK-B)
func normalizeTicker(ticker string) string {
	return strings.ReplaceAll(ticker, ".", "-")
}
