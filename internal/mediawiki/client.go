package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nettrom/wikihist/internal/database"
)

// maxBatchSize is the largest number of revision ids the action API
// accepts per revisions query for ordinary clients.
const maxBatchSize = 10

// Client fetches revision content from a MediaWiki action API.
type Client struct {
	baseURL   string
	userAgent string
	batchSize int
	client    *http.Client
}

// NewClient builds an API client. batchSize 0 (or anything above the API
// limit) means maxBatchSize.
func NewClient(baseURL, userAgent string, batchSize int) *Client {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}
	if userAgent == "" {
		userAgent = "wikihist/1.0 (assessment history resolver)"
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		batchSize: batchSize,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchContent fills in the content of the given revisions, querying the
// API in batches. Revisions the API returns no text for (deleted or
// suppressed) keep nil content; the caller treats those as carrying no
// assessment. The input slice is enriched in place and returned with its
// order preserved.
func (c *Client) FetchContent(ctx context.Context, revs []*database.TalkRevision) ([]*database.TalkRevision, error) {
	byID := make(map[int64]*database.TalkRevision, len(revs))
	for _, rev := range revs {
		byID[rev.ID] = rev
	}

	for start := 0; start < len(revs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(revs) {
			end = len(revs)
		}
		if err := c.fetchBatch(ctx, revs[start:end], byID); err != nil {
			return nil, err
		}
	}
	return revs, nil
}

type queryResult struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		Pages []struct {
			Revisions []struct {
				RevID int64 `json:"revid"`
				Slots struct {
					Main struct {
						Content *string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) fetchBatch(ctx context.Context, batch []*database.TalkRevision, byID map[int64]*database.TalkRevision) error {
	ids := make([]string, len(batch))
	for i, rev := range batch {
		ids[i] = strconv.FormatInt(rev.ID, 10)
	}

	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"prop":          {"revisions"},
		"rvprop":        {"ids|timestamp|content"},
		"rvslots":       {"main"},
		"revids":        {strings.Join(ids, "|")},
	}

	// The API truncates oversized responses and hands back a continue
	// object; keep merging its keys into the request until the batch is
	// fully retrieved.
	for {
		result, err := c.doQuery(ctx, params)
		if err != nil {
			return err
		}

		for _, page := range result.Query.Pages {
			for _, rev := range page.Revisions {
				target, ok := byID[rev.RevID]
				if !ok || rev.Slots.Main.Content == nil {
					continue
				}
				target.Content = rev.Slots.Main.Content
			}
		}

		if len(result.Continue) == 0 {
			return nil
		}
		for key, value := range result.Continue {
			params.Set(key, value)
		}
	}
}

func (c *Client) doQuery(ctx context.Context, params url.Values) (*queryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building API request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying content API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content API returned HTTP %d", resp.StatusCode)
	}

	var result queryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding API response: %w", err)
	}
	return &result, nil
}
