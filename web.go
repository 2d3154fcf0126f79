package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// httpClient is used for every web target.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// webPage is a pending URL in a link traversal.
type webPage struct {
	url   string
	depth int
}

// fetchWebTargets fetches startURL, converts it to Markdown text and visits
// it as a single entry. With traverse set, links are followed breadth-first
// up to maxDepth using an explicit queue; every URL is visited at most once.
// Only a failure of the start page is returned; failures of linked pages are
// visited as entries carrying the error.
func fetchWebTargets(startURL string, traverse bool, maxDepth int, visit visitFunc) error {
	if !traverse {
		maxDepth = 0
	}

	start, err := cleanURL(startURL)
	if err != nil {
		return fmt.Errorf("invalid start URL: %w", err)
	}

	visited := map[string]bool{start.String(): true}
	queue := []webPage{{url: start.String()}}
	for len(queue) > 0 {
		page := queue[0]
		queue = queue[1:]

		logger.Debug("processing web URL", "url", page.url, "depth", page.depth)
		body, err := fetchHTML(page.url)
		if err != nil {
			if page.depth == 0 {
				return err
			}
			if err := visit(TraversalEntry{Path: page.url, Label: page.url, Err: err}); err != nil {
				return err
			}
			continue
		}

		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(body)
		entry := TraversalEntry{Path: page.url, Label: page.url, Err: err}
		if err == nil {
			entry.Content = []byte(markdown)
			entry.Size = int64(len(markdown))
		}
		if err := visit(entry); err != nil {
			return err
		}

		if page.depth >= maxDepth {
			continue
		}
		links, err := extractLinks(page.url, body)
		if err != nil {
			logger.Warn("failed to parse HTML for links", "url", page.url, "err", err)
			continue
		}
		for _, link := range links {
			if visited[link] {
				continue
			}
			visited[link] = true
			queue = append(queue, webPage{url: link, depth: page.depth + 1})
		}
	}
	return nil
}

// fetchHTML returns the body of an HTML page.
func fetchHTML(pageURL string) (string, error) {
	res, err := httpClient.Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("failed to fetch: status code %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	return string(bodyBytes), nil
}

// extractLinks returns the absolute http(s) links of a page in document order.
func extractLinks(pageURL, body string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		link, exists := s.Attr("href")
		lower := strings.ToLower(link)
		if !exists || link == "" || strings.HasPrefix(link, "#") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
			return
		}

		resolved, err := base.Parse(link)
		if err != nil {
			logger.Debug("could not resolve link", "link", link, "page", pageURL, "err", err)
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment = ""
		links = append(links, resolved.String())
	})
	return links, nil
}

// cleanURL parses raw and drops the fragment so the same page is not
// visited twice.
func cleanURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	parsed.Fragment = ""
	return parsed, nil
}
