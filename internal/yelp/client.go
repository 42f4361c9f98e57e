package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/foodbot/internal/entity"
)

const defaultPhoneRegion = "US"

// Credentials are the four secret fields the search API requires.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Client queries the Yelp business search API with OAuth 1.0a signed
// requests built from the four credential fields.
type Client struct {
	httpClient *http.Client
	baseURL    string
	signer     *signer
}

// NewClient builds a search client. A nil http.Client gets a sane timeout.
func NewClient(httpClient *http.Client, baseURL string, creds Credentials) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		signer:     newSigner(creds),
	}
}

type searchResponse struct {
	Businesses []struct {
		Name        string  `json:"name"`
		Rating      float64 `json:"rating"`
		ImageURL    string  `json:"image_url"`
		URL         string  `json:"url"`
		Phone       string  `json:"phone"`
		ReviewCount int     `json:"review_count"`
		Location    struct {
			DisplayAddress []string `json:"display_address"`
		} `json:"location"`
	} `json:"businesses"`
	Error *struct {
		Text string `json:"text"`
		ID   string `json:"id"`
	} `json:"error"`
}

// Search looks up businesses for the query and returns them in API order.
func (c *Client) Search(ctx context.Context, query entity.SearchQuery) ([]entity.Business, error) {
	params := url.Values{
		"term":     {query.Term},
		"location": {query.Location},
	}
	endpoint := c.baseURL + "/search"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+c.signer.sign(http.MethodGet, endpoint, params).Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return nil, fmt.Errorf("search api error %s: %s", parsed.Error.ID, parsed.Error.Text)
		}
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	businesses := make([]entity.Business, 0, len(parsed.Businesses))
	for _, raw := range parsed.Businesses {
		businesses = append(businesses, entity.Business{
			Name:        raw.Name,
			Rating:      raw.Rating,
			ImageURL:    raw.ImageURL,
			URL:         raw.URL,
			Phone:       formatPhone(raw.Phone),
			ReviewCount: raw.ReviewCount,
			Address:     strings.Join(raw.Location.DisplayAddress, ", "),
		})
	}
	return businesses, nil
}

// formatPhone renders the API phone in national format; values that do
// not parse as phone numbers pass through untouched.
func formatPhone(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
}
