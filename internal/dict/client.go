// Package dict queries the reference dictionary for candidate definitions.
// The dictionary is a public web page, so the client is deliberately polite:
// it honors robots.txt, rate-limits itself and caches lookups. A word with
// no dictionary page is a normal empty result, not a failure.
package dict

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/Jubliano-sama/anki-extractor/internal/cache"
	"github.com/Jubliano-sama/anki-extractor/internal/model"
)

// Client fetches candidate definitions for a word.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	robots     *robotsChecker
	maxBytes   int64
}

// NewClient creates a dictionary client from configuration.
func NewClient(cfg model.DictionaryConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		cache:      cache.NewMemory(ttl),
		cacheTTL:   ttl,
		maxBytes:   2 << 20,
	}
	if cfg.RespectRobots {
		c.robots = newRobotsChecker(cfg.UserAgent, timeout)
	}
	return c
}

// FetchDefinitions returns the dictionary's candidate definitions for the
// word in source order, or an empty slice when the dictionary has none.
func (c *Client) FetchDefinitions(ctx context.Context, word string) ([]string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, nil
	}

	key := cache.Key("dict", c.baseURL, word)
	if defs, ok := c.cache.Get(key); ok {
		return defs, nil
	}

	pageURL := c.baseURL + url.PathEscape(word)
	if c.robots != nil && !c.robots.allowed(ctx, pageURL) {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dictionary page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Missing or blocked pages mean "no dictionary entry".
	if resp.StatusCode != http.StatusOK {
		c.cache.Set(key, nil, c.cacheTTL)
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read dictionary page: %w", err)
	}

	defs, err := parseDefinitions(body)
	if err != nil {
		return nil, fmt.Errorf("parse dictionary page: %w", err)
	}
	c.cache.Set(key, defs, c.cacheTTL)
	return defs, nil
}

// parseDefinitions pulls the definition bodies out of a dictionary page.
// Cambridge marks each with a div carrying the "ddef_d" class.
func parseDefinitions(page []byte) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, err
	}

	var defs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "ddef_d") {
			if text := collapseText(n); text != "" {
				defs = append(defs, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return defs, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func collapseText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimRight(strings.Join(strings.Fields(sb.String()), " "), " :")
}
