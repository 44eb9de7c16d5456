package content

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// urlset is the sitemap.org XML document root.
type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// staticPages are the non-blog pages included in the sitemap.
var staticPages = []string{"/", "/services", "/blog", "/contact"}

// Sitemap renders sitemap.xml for the static pages plus every post.
func Sitemap(baseURL string, lib *Library) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	doc := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range staticPages {
		doc.URLs = append(doc.URLs, sitemapURL{Loc: base + page})
	}
	for _, post := range lib.Posts() {
		doc.URLs = append(doc.URLs, sitemapURL{
			Loc:     base + "/blog/" + post.Slug,
			LastMod: post.Date.Format("2006-01-02"),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("content: marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// SitemapHandler serves sitemap.xml. The document is rendered once; posts
// only change on restart.
func SitemapHandler(baseURL string, lib *Library) (http.HandlerFunc, error) {
	body, err := Sitemap(baseURL, lib)
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}, nil
}

// rss is the RSS 2.0 document root.
type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Category    string `xml:"category,omitempty"`
}

// Feed renders the RSS 2.0 feed for the blog.
func Feed(baseURL, siteName string, lib *Library) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	ch := rssChannel{
		Title:       siteName,
		Link:        base + "/blog",
		Description: siteName + " insights and articles",
	}
	for _, post := range lib.Posts() {
		link := base + "/blog/" + post.Slug
		ch.Items = append(ch.Items, rssItem{
			Title:       post.Title,
			Link:        link,
			Description: post.Description,
			PubDate:     post.Date.Format(time.RFC1123Z),
			GUID:        link,
			Category:    post.Category,
		})
	}

	out, err := xml.MarshalIndent(rss{Version: "2.0", Channel: ch}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("content: marshal feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// FeedHandler serves feed.xml.
func FeedHandler(baseURL, siteName string, lib *Library) (http.HandlerFunc, error) {
	body, err := Feed(baseURL, siteName, lib)
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}, nil
}
