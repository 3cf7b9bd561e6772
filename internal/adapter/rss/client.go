package rss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// Client downloads and parses RSS news feeds.
type Client struct {
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new RSS feed client
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("client", "rss").Logger(),
	}
}

// Fetch downloads one feed and returns its items as headlines. Items missing
// a title are dropped; missing link or pubDate are kept as empty strings.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]domain.NewsHeadline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	headlines, err := parseFeed(body)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("feed", feedURL).Int("items", len(headlines)).Msg("fetched feed")
	return headlines, nil
}

// parseFeed extracts item titles, links and publish dates from RSS XML.
func parseFeed(rawBody []byte) ([]domain.NewsHeadline, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	items := doc.FindElements("//item")
	headlines := make([]domain.NewsHeadline, 0, len(items))
	for _, item := range items {
		title := childText(item, "title")
		if title == "" {
			continue
		}
		headlines = append(headlines, domain.NewsHeadline{
			Title:     title,
			Link:      childText(item, "link"),
			Published: childText(item, "pubDate"),
		})
	}
	return headlines, nil
}

func childText(item *etree.Element, tag string) string {
	el := item.FindElement("./" + tag)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
