package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pricescope/backend/internal/domain"
)

// Client talks to one marketplace's scraper search API. The scraper service
// owns page navigation and anti-bot concerns; this client only sees the
// resulting JSON listings.
type Client struct {
	name        string
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxPages    int
	rateLimiter *rate.Limiter
	debug       bool
}

// searchResponse is one page of scraper output
type searchResponse struct {
	Results    []json.RawMessage `json:"results"`
	TotalPages int               `json:"totalPages"`
}

// NewClient creates a client for the named marketplace
func NewClient(name, baseURL, apiKey string, maxPages int) *Client {
	if maxPages <= 0 {
		maxPages = 1
	}

	// Scraper services are slow and fragile; keep request pressure low
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		name: name,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxPages:    maxPages,
		rateLimiter: limiter,
	}
}

// Name returns the marketplace name this client searches
func (c *Client) Name() string {
	return c.name
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SearchListings fetches up to maxPages of search results for the query and
// folds them into domain listings. A failure on page 1 is an error; a
// failure on a later page truncates the result instead.
func (c *Client) SearchListings(ctx context.Context, query string) ([]domain.Listing, error) {
	var listings []domain.Listing

	for page := 1; page <= c.maxPages; page++ {
		pageResp, err := c.searchPage(ctx, query, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			log.Printf("[MARKET] %s page %d failed, keeping %d listings: %v", c.name, page, len(listings), err)
			break
		}

		for _, raw := range pageResp.Results {
			listing, ok := mapListing(raw)
			if !ok {
				continue
			}
			listings = append(listings, listing)
		}

		if pageResp.TotalPages > 0 && page >= pageResp.TotalPages {
			break
		}
	}

	if c.debug {
		log.Printf("[MARKET] %s: %d listings for %q", c.name, len(listings), query)
	}
	return listings, nil
}

// searchPage fetches one result page with retries
func (c *Client) searchPage(ctx context.Context, query string, page int) (*searchResponse, error) {
	endpoint := fmt.Sprintf("%s/search", c.baseURL)
	params := url.Values{}
	params.Add("q", query)
	params.Add("page", strconv.Itoa(page))
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[MARKET] %s request error (attempt %d): %v", c.name, attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrMarketplaceUnavailable, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		if status != http.StatusOK {
			if c.debug {
				log.Printf("[MARKET] %s status %d (attempt %d): %s", c.name, status, attempt, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrMarketplaceUnavailable, status)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var pageResp searchResponse
		if err := json.Unmarshal(body, &pageResp); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", c.name, err)
		}
		return &pageResp, nil
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceScope/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
