package components

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type heroSlide struct {
	heading string
	text    string
	ctaText string
	ctaHref string
}

var heroSlides = []heroSlide{
	{
		heading: "Decisions You Can Execute",
		text:    "Short, focused advisory engagements that leave your team with a plan and an owner, not a slide deck.",
		ctaText: "Talk to us",
		ctaHref: "/contact",
	},
	{
		heading: "Regulation Without the Scramble",
		text:    "Readiness assessments and remediation programs that start early enough to matter.",
		ctaText: "Our services",
		ctaHref: "/services",
	},
	{
		heading: "Technology Sized to Your Firm",
		text:    "Cut the tooling you bought for a company three times your size. Keep what touches revenue.",
		ctaText: "Read our insights",
		ctaHref: "/blog",
	},
}

// Hero renders the rotating hero carousel. The carousel script advances
// slides on a timer; without JavaScript the first slide simply stays visible.
func Hero() g.Node {
	slides := make([]g.Node, 0, len(heroSlides))
	dots := make([]g.Node, 0, len(heroSlides))
	for i, s := range heroSlides {
		slideCls, dotCls := "hero-slide", "hero-dot"
		if i == 0 {
			slideCls += " active"
			dotCls += " active"
		}
		slides = append(slides, Div(
			Class(slideCls),
			g.Attr("data-slide", strconv.Itoa(i)),
			H1(Class("hero-heading"), g.Text(s.heading)),
			P(Class("hero-text"), g.Text(s.text)),
			A(Href(s.ctaHref), Class("btn btn-primary"), g.Text(s.ctaText)),
		))
		dots = append(dots, Button(
			Class(dotCls),
			Type("button"),
			g.Attr("data-goto", strconv.Itoa(i)),
			Aria("label", "Go to slide "+strconv.Itoa(i+1)),
		))
	}

	return Section(
		Class("hero"),
		g.Attr("data-carousel", ""),
		g.Attr("data-carousel-interval", "6000"),
		Div(Class("hero-slides"), g.Group(slides)),
		Div(Class("hero-dots"), g.Group(dots)),
	)
}
