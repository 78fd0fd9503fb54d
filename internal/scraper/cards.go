package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/maplehacks/mlh-scrape/internal/event"
)

// CardSelector matches the elements that hold one event each
const CardSelector = `[data-test="event-card"], article, .event, .event-card, .sc-card, .card`

var (
	cardMatcher = cascadia.MustCompile(CardSelector)

	// Field selectors, tried in order; the first non-empty match wins
	nameMatchers     = compileAll(`[data-test="event-name"]`, `h3`, `h2`, `a[title]`, `.event-name`, `.card-title`)
	dateMatchers     = compileAll(`[data-test="event-date"]`, `time`, `.event-date`, `.date`)
	locationMatchers = compileAll(`[data-test="event-location"]`, `[class*="location"]`, `address`, `.event-location`, `p`)
)

func compileAll(selectors ...string) []cascadia.Selector {
	out := make([]cascadia.Selector, len(selectors))
	for i, s := range selectors {
		out[i] = cascadia.MustCompile(s)
	}
	return out
}

// extractCards reads one record per card. Cards lacking a name, date or
// location are ignored.
func extractCards(doc *goquery.Document, links *linkPicker) []event.RawEvent {
	var records []event.RawEvent

	doc.FindMatcher(cardMatcher).Each(func(_ int, card *goquery.Selection) {
		rec := event.RawEvent{
			Name:     pickText(card, nameMatchers),
			Date:     pickText(card, dateMatchers),
			Location: pickText(card, locationMatchers),
			Website:  links.website(card),
		}
		if rec.Name == "" || rec.Date == "" || rec.Location == "" {
			return
		}
		records = append(records, rec)
	})

	return records
}

// pickText returns the cleaned text of the first matcher that finds a non-empty element
func pickText(root *goquery.Selection, matchers []cascadia.Selector) string {
	for _, m := range matchers {
		text := cleanText(root.FindMatcher(m).First().Text())
		if text != "" {
			return strings.TrimSpace(text)
		}
	}
	return ""
}
