package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxContentChars = 10000
	minContentChars = 50
	minImageSrcLen  = 20
)

// strippedSelectors lists the non-content blocks removed before text extraction.
const strippedSelectors = "script, style, nav, footer, header, aside"

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Source fragments that disqualify an image inside the article region.
var articleImageExcludes = []string{"avatar", "icon"}

// Source fragments that disqualify an image anywhere in the page.
var globalImageExcludes = []string{"logo", "avatar", "icon", "sprite", "1x1"}

// Parse builds a queryable document from a fetched page body.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ExtractText pulls the main article text out of the document. It removes
// non-content blocks in place, so select the image before calling this when
// sharing a document. Preference order: article, main, a container whose
// class mentions content, then the remaining body.
func ExtractText(doc *goquery.Document) string {
	doc.Find(strippedSelectors).Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("[class*=content]").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		return ""
	}

	text := strings.TrimSpace(whitespaceRegex.ReplaceAllString(root.Text(), " "))

	runes := []rune(text)
	if len(runes) > maxContentChars {
		text = string(runes[:maxContentChars])
	}

	return text
}

// SelectImage picks a lead image for the article. Priority: og:image,
// twitter:image, the first clean image inside the article region, then the
// first plausible image anywhere. Returns "" when nothing qualifies.
func SelectImage(doc *goquery.Document) string {
	if src := metaContent(doc, "og:image"); src != "" {
		return src
	}
	if src := metaContent(doc, "twitter:image"); src != "" {
		return src
	}

	if src := firstImage(doc.Find("article img, main img"), func(src string) bool {
		return !containsAny(strings.ToLower(src), articleImageExcludes)
	}); src != "" {
		return src
	}

	return firstImage(doc.Find("img"), func(src string) bool {
		return len(src) > minImageSrcLen && !containsAny(strings.ToLower(src), globalImageExcludes)
	})
}

// metaContent reads a meta tag value from either the property or name attribute.
func metaContent(doc *goquery.Document, property string) string {
	if value, exists := doc.Find(fmt.Sprintf("meta[property='%s']", property)).Attr("content"); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	if value, exists := doc.Find(fmt.Sprintf("meta[name='%s']", property)).Attr("content"); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return ""
}

// firstImage returns the src of the first image in the selection accepted by the filter.
func firstImage(images *goquery.Selection, accept func(string) bool) string {
	var found string
	images.EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" || !accept(src) {
			return true
		}
		found = src
		return false
	})
	return found
}

func containsAny(s string, fragments []string) bool {
	for _, fragment := range fragments {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}
