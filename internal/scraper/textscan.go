package scraper

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maplehacks/mlh-scrape/internal/event"
	"golang.org/x/net/html"
)

// maxAncestorDepth bounds how far up from a date the scan looks for a location
const maxAncestorDepth = 5

// maxDateLength keeps long paragraphs that merely mention a date from being used as the date
const maxDateLength = 60

var (
	monthDayPattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?\b`)
	locationPattern = buildLocationPattern()
	headingSelector = `h1, h2, h3, h4, [class*="name"], [class*="title"]`
)

// buildLocationPattern matches "City, Province" where Province is a code, a full
// name or "Canada". Codes are matched case-sensitively so that words like "on"
// in running text are not taken for Ontario.
func buildLocationPattern() *regexp.Regexp {
	names := append(event.ProvinceNames(), "QUÉBEC", "CANADA")
	codes := event.ProvinceCodes()

	// longest first so "NOVA SCOTIA" wins over shorter overlaps
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	sort.Strings(codes)

	for i, n := range names {
		names[i] = regexp.QuoteMeta(n)
	}

	return regexp.MustCompile(`\p{Lu}[\p{L}.'’\- ]{1,40},\s*(?:(?i:` + strings.Join(names, "|") + `)|` + strings.Join(codes, "|") + `)\b`)
}

// extractTextScan finds text nodes that look like dates, then walks a few ancestors
// up looking for a container that also holds a location line and a heading.
func extractTextScan(doc *goquery.Document, links *linkPicker) []event.RawEvent {
	var records []event.RawEvent

	for _, n := range dateTextNodes(doc) {
		dateText := cleanText(n.Data)
		if len(dateText) > maxDateLength {
			dateText = monthDayPattern.FindString(dateText)
		}

		anc := doc.FindNodes(n.Parent)
		for depth := 0; depth < maxAncestorDepth && anc.Length() > 0; depth++ {
			location := findLocationLine(anc)
			if location == "" {
				anc = anc.Parent()
				continue
			}

			name := cleanText(anc.Find(headingSelector).First().Text())
			if name != "" {
				records = append(records, event.RawEvent{
					Name:     name,
					Date:     dateText,
					Location: location,
					Website:  links.offSite(anc),
				})
			}
			break
		}
	}

	return records
}

// dateTextNodes returns text nodes outside script/style that contain a month and day
func dateTextNodes(doc *goquery.Document) []*html.Node {
	var nodes []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode && n.Parent != nil && monthDayPattern.MatchString(n.Data) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range doc.Nodes {
		walk(root)
	}
	return nodes
}

// findLocationLine returns the first "City, Province" match among the text nodes under sel
func findLocationLine(sel *goquery.Selection) string {
	for _, line := range textLines(sel) {
		if m := locationPattern.FindString(line); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// textLines returns the cleaned, non-empty text nodes under sel in document order.
// Unlike Selection.Text it keeps adjacent elements apart.
func textLines(sel *goquery.Selection) []string {
	var lines []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := cleanText(n.Data); t != "" {
				lines = append(lines, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}
