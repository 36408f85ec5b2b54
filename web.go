package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fetchWebDocument downloads an HTML page and converts it to Markdown so the
// tokenizer sees roughly what a model would be given. It returns the page
// title (falling back to the URL) and the Markdown text.
func fetchWebDocument(url string) (title, markdown string, err error) {
	res, err := http.Get(url)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", "", fmt.Errorf("failed to fetch URL %s: status code %d", url, res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", "", fmt.Errorf("unsupported content type %q for URL %s", contentType, url)
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	title = url
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes))); docErr == nil {
		if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
			title = t
		}
	}

	converter := md.NewConverter("", true, nil)
	markdown, err = converter.ConvertString(string(bodyBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to convert HTML to Markdown for %s: %w", url, err)
	}

	return title, markdown, nil
}
