package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type navLink struct {
	label string
	href  string
}

var navLinks = []navLink{
	{"Home", "/"},
	{"Services", "/services"},
	{"Insights", "/blog"},
	{"Contact", "/contact"},
}

// Topbar renders the site navigation. currentPath highlights the active link.
func Topbar(currentPath string) g.Node {
	return Header(
		Class("topbar"),
		Div(
			Class("topbar-inner"),
			A(Href("/"), Class("topbar-brand"), g.Text("Westmark Advisory")),
			Nav(
				Class("topbar-nav"),
				g.Group(g.Map(navLinks, func(l navLink) g.Node {
					cls := "topbar-link"
					if l.href == currentPath {
						cls += " active"
					}
					return A(Href(l.href), Class(cls), g.Text(l.label))
				})),
			),
		),
	)
}

// PageFooter renders the shared footer.
func PageFooter() g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("footer-inner"),
			P(g.Text("Westmark Advisory")),
			P(Class("footer-muted"), g.Text("Management and technology consulting for the mid market.")),
			Nav(
				Class("footer-nav"),
				A(Href("/services"), g.Text("Services")),
				A(Href("/blog"), g.Text("Insights")),
				A(Href("/contact"), g.Text("Contact")),
				A(Href("/feed.xml"), g.Text("RSS")),
			),
		),
	)
}
