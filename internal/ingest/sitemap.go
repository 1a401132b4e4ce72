package ingest

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedcore/internal/logger"
)

// dateOnlyFormat is the date-only layout for sitemap lastmod values.
const dateOnlyFormat = "2006-01-02"

type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []xmlSitemap `xml:"sitemap"`
}

type xmlSitemap struct {
	Loc string `xml:"loc"`
}

// sitemapItems parses a sitemap body into items. A sitemap index is
// followed one level deep: each child sitemap is fetched and parsed, and
// an unreachable child skips rather than failing the poll.
func (f *FeedFetcher) sitemapItems(ctx context.Context, body string) ([]feedItem, error) {
	if !strings.Contains(body, "<sitemapindex") {
		return parseSitemap(body)
	}

	children, err := parseSitemapIndex(body)
	if err != nil {
		return nil, err
	}

	var items []feedItem
	for _, child := range children {
		childBody, fetchErr := f.fetcher.Fetch(ctx, child)
		if fetchErr != nil {
			f.log.Warn("failed to fetch child sitemap",
				logger.String("url", child),
				logger.Error(fetchErr))
			continue
		}

		childItems, parseErr := parseSitemap(string(childBody))
		if parseErr != nil {
			f.log.Warn("failed to parse child sitemap",
				logger.String("url", child),
				logger.Error(parseErr))
			continue
		}

		items = append(items, childItems...)
	}
	return items, nil
}

// parseSitemap extracts URL entries from a urlset document. A lastmod
// value, when parseable, becomes the item's publication time.
func parseSitemap(body string) ([]feedItem, error) {
	var urlset xmlURLSet
	if err := xml.Unmarshal([]byte(body), &urlset); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	items := make([]feedItem, 0, len(urlset.URLs))
	for _, entry := range urlset.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}

		item := feedItem{URL: loc}
		if t, err := parseLastMod(entry.LastMod); err == nil {
			item.PublishedAt = &t
		}
		items = append(items, item)
	}
	return items, nil
}

// parseSitemapIndex returns the child sitemap URLs of an index document.
func parseSitemapIndex(body string) ([]string, error) {
	var index xmlSitemapIndex
	if err := xml.Unmarshal([]byte(body), &index); err != nil {
		return nil, fmt.Errorf("parse sitemap index: %w", err)
	}

	urls := make([]string, 0, len(index.Sitemaps))
	for _, entry := range index.Sitemaps {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

// parseLastMod accepts RFC 3339 or date-only lastmod values.
func parseLastMod(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, errors.New("empty lastmod")
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, nil
	}

	t, err := time.Parse(dateOnlyFormat, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse lastmod %q: %w", trimmed, err)
	}
	return t, nil
}
