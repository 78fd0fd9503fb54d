package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkPicker resolves hrefs and chooses an event's website
type linkPicker struct {
	base          *url.URL
	excludedHosts []string
}

// absolute resolves href against the page URL. Returns "" when href is unusable.
func (p *linkPicker) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if p.base == nil {
		return ref.String()
	}
	return p.base.ResolveReference(ref).String()
}

// excluded reports whether u points at one of the excluded hosts
func (p *linkPicker) excluded(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range p.excludedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// offSite returns the first http(s) link under sel that is not on an excluded host
func (p *linkPicker) offSite(sel *goquery.Selection) string {
	var website string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		abs := p.absolute(href)
		if strings.HasPrefix(abs, "http://") || strings.HasPrefix(abs, "https://") {
			if !p.excluded(abs) {
				website = abs
				return false
			}
		}
		return true
	})
	return website
}

// website prefers an off-site link and falls back to the first link of any kind
func (p *linkPicker) website(sel *goquery.Selection) string {
	if w := p.offSite(sel); w != "" {
		return w
	}
	href, ok := sel.Find("a[href]").First().Attr("href")
	if !ok {
		return ""
	}
	return p.absolute(href)
}
