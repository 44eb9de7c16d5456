package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type service struct {
	title string
	text  string
}

var services = []service{
	{
		title: "Regulatory Readiness",
		text:  "Gap assessments, remediation sequencing, and evidence-trail design ahead of examinations.",
	},
	{
		title: "Technology Advisory",
		text:  "Stack right-sizing, vendor selection, and build-versus-buy decisions grounded in your actual scale.",
	},
	{
		title: "Operational Improvement",
		text:  "Process mapping and consolidation work that reduces licence spend and admin hours, measured before and after.",
	},
	{
		title: "Interim Leadership",
		text:  "Fractional CTO and compliance-officer coverage while you hire the permanent role.",
	},
}

// ServicesGrid renders the services overview cards.
func ServicesGrid() g.Node {
	return Section(
		Class("services"),
		ID("services"),
		H2(Class("section-heading"), g.Text("What We Do")),
		Div(
			Class("services-grid"),
			g.Group(g.Map(services, func(s service) g.Node {
				return Div(
					Class("service-card"),
					H3(g.Text(s.title)),
					P(g.Text(s.text)),
				)
			})),
		),
	)
}

// CTA renders the closing call-to-action band.
func CTA() g.Node {
	return Section(
		Class("cta"),
		H2(g.Text("Not sure where to start?")),
		P(g.Text("A thirty-minute conversation is usually enough to tell whether we can help.")),
		A(Href("/contact"), Class("btn btn-primary"), g.Text("Get in touch")),
	)
}
