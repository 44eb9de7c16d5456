// Package web serves the site's HTML pages and static assets.
package web

import (
	"net/http"

	"go.uber.org/zap"
	g "maragu.dev/gomponents"

	"github.com/westmarkadvisory/website/internal/content"
	"github.com/westmarkadvisory/website/internal/web/components"
)

// Pages renders the site's HTML pages.
type Pages struct {
	lib      *content.Library
	siteName string
	baseURL  string
	logger   *zap.Logger
}

// NewPages creates the page handlers over the loaded post library.
func NewPages(lib *content.Library, siteName, baseURL string, logger *zap.Logger) *Pages {
	return &Pages{lib: lib, siteName: siteName, baseURL: baseURL, logger: logger}
}

func (p *Pages) render(w http.ResponseWriter, page g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		p.logger.Error("render page", zap.Error(err))
	}
}

func (p *Pages) config(title, description, path string) components.PageConfig {
	return components.PageConfig{
		Title:       title,
		Description: description,
		SiteName:    p.siteName,
		Path:        path,
		BaseURL:     p.baseURL,
	}
}

// Home handles GET /.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	page := components.Layout(
		p.config("", "", "/"),
		components.Topbar("/"),
		components.Hero(),
		components.ServicesGrid(),
		components.BlogGrid(firstN(p.lib.Posts(), 3)),
		components.CTA(),
		components.PageFooter(),
	)
	p.render(w, page)
}

// Services handles GET /services.
func (p *Pages) Services(w http.ResponseWriter, r *http.Request) {
	page := components.Layout(
		p.config(p.siteName+" - Services", "Advisory, regulatory readiness, technology, and operations services.", "/services"),
		components.Topbar("/services"),
		components.ServicesGrid(),
		components.CTA(),
		components.PageFooter(),
	)
	p.render(w, page)
}

// Blog handles GET /blog.
func (p *Pages) Blog(w http.ResponseWriter, r *http.Request) {
	page := components.Layout(
		p.config(p.siteName+" - Insights", "Articles on regulation, operations, and technology for the mid market.", "/blog"),
		components.Topbar("/blog"),
		components.BlogGrid(p.lib.Posts()),
		components.PageFooter(),
	)
	p.render(w, page)
}

// BlogPost handles GET /blog/{slug}. PostSlug extracts the slug; the router
// binds it with chi.URLParam.
func (p *Pages) BlogPost(slug func(r *http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post := p.lib.BySlug(slug(r))
		if post == nil {
			http.NotFound(w, r)
			return
		}
		page := components.Layout(
			p.config(post.Title+" - "+p.siteName, post.Description, "/blog/"+post.Slug),
			components.Topbar("/blog"),
			components.BlogPost(post),
			components.PageFooter(),
		)
		p.render(w, page)
	}
}

// Contact handles GET /contact.
func (p *Pages) Contact(w http.ResponseWriter, r *http.Request) {
	page := components.Layout(
		p.config(p.siteName+" - Contact", "Get in touch with Westmark Advisory.", "/contact"),
		components.Topbar("/contact"),
		components.ContactForm(),
		components.PageFooter(),
	)
	p.render(w, page)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func firstN(posts []*content.Post, n int) []*content.Post {
	if len(posts) > n {
		return posts[:n]
	}
	return posts
}
