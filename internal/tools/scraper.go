package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// maxArticleChars caps extracted page content so a single fetch cannot blow
// up a delegate's context window.
const maxArticleChars = 40000

// ScraperTool fetches a web page and reduces it to clean readable text, so
// delegates can pull reference material for their task.
type ScraperTool struct {
	Client    *http.Client
	UserAgent string
	policy    *bluemonday.Policy
}

func NewScraperTool() *ScraperTool {
	return &ScraperTool{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		policy:    bluemonday.StrictPolicy(),
	}
}

func (s *ScraperTool) Name() string {
	return "fetch_page"
}

func (s *ScraperTool) Description() string {
	return "Fetch a webpage URL and extract its main content as clean, sanitized text."
}

func (s *ScraperTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The full URL of the webpage to fetch (e.g., https://example.com/article)",
			},
		},
		"required": []string{"url"},
	}
}

func (s *ScraperTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	parsedURL, err := url.Parse(args.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %v", err)
	}

	// Strip any markup readability left behind.
	content := s.policy.Sanitize(article.TextContent)
	if len(content) > maxArticleChars {
		content = content[:maxArticleChars] + "\n... (content truncated) ..."
	}

	out := fmt.Sprintf("TITLE: %s\n", article.Title)
	if article.Excerpt != "" {
		out += fmt.Sprintf("EXCERPT: %s\n", article.Excerpt)
	}
	out += "\n-- CONTENT --\n" + content

	return out, nil
}
