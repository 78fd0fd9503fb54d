package scraper

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maplehacks/mlh-scrape/internal/event"
	"github.com/maplehacks/mlh-scrape/internal/logger"
	"github.com/ysmood/gson"
)

var (
	locationKeys = []string{"location", "city", "country"}
	dateKeys     = []string{"date", "when", "start", "startDate"}
	websiteKeys  = []string{"website", "url"}
)

// extractNextData walks the __NEXT_DATA__ JSON embedded by Next.js pages. Any
// object with a string name, a location-like key and a date-like key counts
// as an event.
func extractNextData(doc *goquery.Document, links *linkPicker) []event.RawEvent {
	script := doc.Find(`script#__NEXT_DATA__`).First()
	if script.Length() == 0 {
		return nil
	}

	var data gson.JSON
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		logger.Debug("__NEXT_DATA__ is not valid JSON", logger.Fields{"error": err.Error()})
		return nil
	}

	var records []event.RawEvent
	walkObjects(data, func(obj map[string]gson.JSON) {
		name := stringField(obj, "name")
		location := stringField(obj, locationKeys...)
		date := stringField(obj, dateKeys...)
		if name == "" || location == "" || date == "" {
			return
		}

		website := stringField(obj, websiteKeys...)
		if website != "" {
			website = links.absolute(website)
		}

		records = append(records, event.RawEvent{
			Name:     cleanText(name),
			Date:     cleanText(date),
			Location: cleanText(location),
			Website:  website,
		})
	})

	return records
}

// walkObjects visits every JSON object depth-first. Object keys are visited in
// sorted order and array items in order, so results are deterministic.
func walkObjects(node gson.JSON, visit func(map[string]gson.JSON)) {
	switch node.Val().(type) {
	case map[string]interface{}:
		obj := node.Map()
		visit(obj)

		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkObjects(obj[k], visit)
		}
	case []interface{}:
		for _, item := range node.Arr() {
			walkObjects(item, visit)
		}
	}
}

// stringField returns the first non-empty string value among keys
func stringField(obj map[string]gson.JSON, keys ...string) string {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if s, isString := v.Val().(string); isString && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
