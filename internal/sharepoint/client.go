// Package sharepoint is a minimal REST client for a hosted list store.
// Session establishment is the hosting platform's concern; the client only
// attaches whatever bearer token it was configured with.
package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hrsuite/bulkupload/internal/domain"
)

// Config holds the connection settings for one site.
type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// Client issues list operations against a single site. It is constructed once
// at startup and passed by reference to every component that touches the
// store; there is no package-level instance.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("sharepoint: base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   base,
		authToken: cfg.AuthToken,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

// Item is a stored list item: the employee fields plus the list's numeric
// identifier.
type Item struct {
	ID int `json:"ID"`
	domain.Employee
}

type itemsResponse struct {
	Value    []Item `json:"value"`
	NextLink string `json:"odata.nextLink"`
}

func (c *Client) itemsURL(listName string) string {
	// A quote inside the OData string literal is escaped by doubling it;
	// url.PathEscape leaves quotes alone.
	escaped := url.PathEscape(strings.ReplaceAll(listName, "'", "''"))
	return fmt.Sprintf("%s/_api/web/lists/GetByTitle('%s')/items", c.baseURL, escaped)
}

func (c *Client) authorize(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// CreateItem adds one employee record to the named list and returns the
// stored item.
func (c *Client) CreateItem(ctx context.Context, listName string, record domain.Employee) (Item, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return Item{}, fmt.Errorf("failed to encode item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.itemsURL(listName), bytes.NewReader(body))
	if err != nil {
		return Item{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;odata=nometadata")
	req.Header.Set("Accept", "application/json;odata=nometadata")
	c.authorize(req)

	res, err := c.http.Do(req)
	if err != nil {
		return Item{}, fmt.Errorf("create item request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		return Item{}, apiError("create item", res)
	}

	var created Item
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return Item{}, fmt.Errorf("failed to decode created item: %w", err)
	}
	return created, nil
}

// ItemPager walks a list's paginated reads. Page boundaries belong to the
// remote service; callers drain pages until More reports false.
type ItemPager struct {
	client  *Client
	nextURL string
}

// Items returns a pager over the named list ordered by ID descending,
// requesting up to top items per page.
func (c *Client) Items(listName string, top int) *ItemPager {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(top))
	query.Set("$orderby", "ID desc")
	return &ItemPager{
		client:  c,
		nextURL: c.itemsURL(listName) + "?" + query.Encode(),
	}
}

// More reports whether another page is available.
func (p *ItemPager) More() bool {
	return p.nextURL != ""
}

// NextPage fetches the next batch of items.
func (p *ItemPager) NextPage(ctx context.Context) ([]Item, error) {
	if p.nextURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.nextURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json;odata=nometadata")
	p.client.authorize(req)

	res, err := p.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list items request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apiError("list items", res)
	}

	var page itemsResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode items page: %w", err)
	}
	p.nextURL = page.NextLink
	return page.Value, nil
}

func apiError(op string, res *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s: api error %d: %s", op, res.StatusCode, strings.TrimSpace(string(snippet)))
}
