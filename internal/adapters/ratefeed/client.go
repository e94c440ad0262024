package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Client fetches full rate snapshots from an exchangerate-api style feed:
// a single GET returning {"base": "AED", "rates": {"USD": 0.272, ...}}.
type Client struct {
	http    *http.Client
	feedURL string
	base    string
}

func NewClient(httpClient *http.Client, feedURL, baseCurrency string) *Client {
	return &Client{http: httpClient, feedURL: feedURL, base: baseCurrency}
}

type feedResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates retrieves the full snapshot. Any malformed payload or a feed
// serving a different base currency is an error; the caller decides whether
// to keep its previous snapshot or fall back.
func (c *Client) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: feed status %s", apperrors.ErrRateFeedUnavailable, resp.Status)
	}

	var fr feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("%w: malformed feed response: %v", apperrors.ErrRateFeedUnavailable, err)
	}

	if fr.Base != c.base {
		return nil, fmt.Errorf("%w: feed base %q, expected %q", apperrors.ErrRateFeedUnavailable, fr.Base, c.base)
	}
	if len(fr.Rates) == 0 {
		return nil, fmt.Errorf("%w: feed returned no rates", apperrors.ErrRateFeedUnavailable)
	}

	rates := make(map[string]decimal.Decimal, len(fr.Rates))
	for code, v := range fr.Rates {
		if v <= 0 {
			return nil, fmt.Errorf("%w: non-positive rate %v for %s", apperrors.ErrRateFeedUnavailable, v, code)
		}
		rates[code] = decimal.NewFromFloat(v)
	}
	return rates, nil
}
