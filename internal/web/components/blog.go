package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/westmarkadvisory/website/internal/content"
)

// BlogGrid renders the post listing cards, newest first.
func BlogGrid(posts []*content.Post) g.Node {
	if len(posts) == 0 {
		return Section(
			Class("blog"),
			P(Class("blog-empty"), g.Text("No articles yet. Check back soon.")),
		)
	}
	return Section(
		Class("blog"),
		Div(
			Class("blog-grid"),
			g.Group(g.Map(posts, blogCard)),
		),
	)
}

func blogCard(p *content.Post) g.Node {
	return Article(
		Class("blog-card"),
		Div(
			Class("blog-card-meta"),
			Span(Class("blog-category"), g.Text(p.Category)),
			Span(Class("blog-readtime"), g.Text(p.ReadTime)),
		),
		H3(A(Href("/blog/"+p.Slug), g.Text(p.Title))),
		P(Class("blog-description"), g.Text(p.Description)),
		postDate(p),
	)
}

func postDate(p *content.Post) g.Node {
	return g.El("time",
		g.Attr("datetime", p.Date.Format("2006-01-02")),
		g.Text(p.Date.Format("January 2, 2006")),
	)
}

// BlogPost renders one post's detail view.
func BlogPost(p *content.Post) g.Node {
	meta := []g.Node{
		Span(Class("blog-category"), g.Text(p.Category)),
		postDate(p),
		Span(Class("blog-readtime"), g.Text(p.ReadTime)),
	}
	if p.Author != "" {
		meta = append(meta, Span(Class("blog-author"), g.Text("By "+p.Author)))
	}

	nodes := []g.Node{
		Header(
			Class("post-header"),
			Div(Class("blog-card-meta"), g.Group(meta)),
			H1(g.Text(p.Title)),
			P(Class("post-description"), g.Text(p.Description)),
		),
		Div(Class("post-body"), g.Raw(string(p.HTML))),
	}
	if len(p.Tags) > 0 {
		nodes = append(nodes, Div(
			Class("post-tags"),
			g.Group(g.Map(p.Tags, func(tag string) g.Node {
				return Span(Class("post-tag"), g.Text(tag))
			})),
		))
	}
	nodes = append(nodes, A(Href("/blog"), Class("post-back"), g.Text("← All insights")))

	return Article(Class("post"), g.Group(nodes))
}
