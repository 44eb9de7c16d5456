// Package components renders the site's HTML with gomponents.
package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// PageConfig carries per-page head metadata.
type PageConfig struct {
	Title       string
	Description string
	SiteName    string
	Path        string // canonical path, e.g. "/blog/some-post"
	BaseURL     string
}

// Layout wraps page content in the shared document shell.
func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.SiteName == "" {
		config.SiteName = "Westmark Advisory"
	}
	if config.Title == "" {
		config.Title = config.SiteName + " - Management & Technology Consulting"
	}
	if config.Description == "" {
		config.Description = "Westmark Advisory helps mid-market firms navigate regulation, operations, and technology decisions."
	}

	head := []g.Node{
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
		TitleEl(g.Text(config.Title)),
		Meta(Name("description"), Content(config.Description)),

		Meta(g.Attr("property", "og:title"), Content(config.Title)),
		Meta(g.Attr("property", "og:description"), Content(config.Description)),
		Meta(g.Attr("property", "og:type"), Content("website")),
		Meta(g.Attr("property", "og:site_name"), Content(config.SiteName)),

		Link(Rel("icon"), Href("/static/images/favicon.svg"), Type("image/svg+xml")),
		Link(Rel("stylesheet"), Href("/static/css/site.css")),
		Link(Rel("alternate"), Type("application/rss+xml"), Href("/feed.xml"),
			g.Attr("title", config.SiteName)),
	}
	if config.BaseURL != "" && config.Path != "" {
		head = append(head, Link(Rel("canonical"), Href(config.BaseURL+config.Path)))
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(head...),
			Body(
				g.Group(content),
				Script(Src("/static/js/carousel.js"), Defer()),
				Script(Src("/static/js/contact-form.js"), Defer()),
			),
		),
	})
}
