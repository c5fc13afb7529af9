package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fetchWebSources resolves a web root into sources for estimation. With
// traversal off, only the root page is fetched; otherwise links are
// followed breadth-first up to maxDepth.
func fetchWebSources(root string, traverse bool, maxDepth int) ([]fileSource, error) {
	if !traverse {
		maxDepth = 0
	}
	visited := make(map[string]bool)
	sources, err := fetchWebPage(root, 0, maxDepth, visited)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no content could be fetched from %s", root)
	}
	return sources, nil
}

// fetchWebPage fetches one page, converts it to markdown, and recurses
// into its links while depth remains. Fetch and conversion failures on
// linked pages are warnings; only an invalid root URL is an error.
func fetchWebPage(pageURL string, currentDepth, maxDepth int, visited map[string]bool) ([]fileSource, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", pageURL, err)
	}
	parsedURL.Fragment = "" // fragments would defeat the visited set
	cleanURL := parsedURL.String()

	if currentDepth > maxDepth || visited[cleanURL] {
		return nil, nil
	}
	visited[cleanURL] = true

	res, err := http.Get(cleanURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to fetch %s: %v\n", cleanURL, err)
		return nil, nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "Warning: failed to fetch %s: status %d\n", cleanURL, res.StatusCode)
		return nil, nil
	}
	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		fmt.Fprintf(os.Stderr, "Warning: skipping non-HTML content (%s) at %s\n", contentType, cleanURL)
		return nil, nil
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read body from %s: %v\n", cleanURL, err)
		return nil, nil
	}

	var sources []fileSource
	converter := md.NewConverter("", true, nil)
	markdown, convErr := converter.ConvertString(string(bodyBytes))
	if convErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to convert %s to markdown: %v\n", cleanURL, convErr)
	} else {
		sources = append(sources, fileSource{Path: cleanURL, Content: []byte(markdown)})
	}

	if currentDepth < maxDepth {
		doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes)))
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse HTML from %s: %v\n", cleanURL, parseErr)
			return sources, nil
		}
		doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
			link, exists := s.Attr("href")
			if !exists || link == "" || strings.HasPrefix(link, "#") {
				return
			}
			lower := strings.ToLower(link)
			if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
				return
			}
			resolved, resolveErr := parsedURL.Parse(link)
			if resolveErr != nil {
				return
			}
			if resolved.Scheme != "http" && resolved.Scheme != "https" {
				return
			}
			linked, _ := fetchWebPage(resolved.String(), currentDepth+1, maxDepth, visited)
			sources = append(sources, linked...)
		})
	}

	return sources, nil
}
