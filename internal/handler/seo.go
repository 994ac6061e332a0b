package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// PublicPaths are the pages listed in the sitemap.
var PublicPaths = []string{"/", "/pricing", "/login"}

var disallowed = []string{"/app/", "/admin/", "/api/", "/preview/"}

type SEOHandler struct {
	siteURL string
}

func NewSEOHandler(siteURL string) *SEOHandler {
	return &SEOHandler{siteURL: strings.TrimRight(siteURL, "/")}
}

// Robots serves robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range disallowed {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", h.siteURL)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(b.String()))
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap serves sitemap.xml for the public pages.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range PublicPaths {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.siteURL + p})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		http.Error(w, "sitemap error", http.StatusInternalServerError)
	}
}
