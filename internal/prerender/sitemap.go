package prerender

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"storesite/internal/schema"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml for routes. NoIndex routes are left out.
func Sitemap(siteURL string, routes []Route, lastMod time.Time) ([]byte, error) {
	set := urlset{Xmlns: sitemapNS, URLs: make([]sitemapURL, 0, len(routes))}
	for _, r := range routes {
		if r.Meta.NoIndex {
			continue
		}
		u := sitemapURL{
			Loc:        schema.AbsURL(siteURL, r.Path),
			ChangeFreq: r.ChangeFreq,
		}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.Format("2006-01-02")
		}
		if r.Priority > 0 {
			u.Priority = fmt.Sprintf("%.1f", r.Priority)
		}
		set.URLs = append(set.URLs, u)
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(siteURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n\n")
	b.WriteString("Sitemap: " + schema.AbsURL(siteURL, "/sitemap.xml") + "\n")
	return []byte(b.String())
}
