package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// ContactForm renders the contact form. The form script posts the fields as
// JSON to /api/contact and walks the idle → submitting → submitted | error
// states; the markup below carries one panel per state.
func ContactForm() g.Node {
	return Section(
		Class("contact"),
		H2(Class("section-heading"), g.Text("Get in Touch")),
		P(Class("contact-intro"), g.Text("Tell us a little about your situation and we'll reply within one business day.")),

		Form(
			ID("contact-form"),
			g.Attr("data-endpoint", "/api/contact"),
			g.Attr("novalidate"),

			Div(
				Class("form-field"),
				Label(For("contact-email"), g.Text("Email")),
				Input(
					Type("email"),
					ID("contact-email"),
					Name("email"),
					Required(),
					Placeholder("you@company.com"),
					g.Attr("autocomplete", "email"),
				),
			),
			Div(
				Class("form-field"),
				Label(For("contact-message"), g.Text("Message (optional)")),
				Textarea(
					ID("contact-message"),
					Name("message"),
					Rows("6"),
					Placeholder("What would you like to discuss?"),
				),
			),

			Div(
				Class("form-actions"),
				Button(
					Type("submit"),
					ID("contact-submit"),
					Class("btn btn-primary"),
					g.Text("Send message"),
				),
			),

			// State panels; the script toggles the hidden attribute.
			P(ID("contact-error"), Class("form-error"), g.Attr("hidden")),
		),

		Div(
			ID("contact-success"),
			Class("contact-success"),
			g.Attr("hidden"),
			P(ID("contact-success-message")),
			Button(
				Type("button"),
				ID("contact-reset"),
				Class("btn"),
				g.Text("Send another message"),
			),
		),
	)
}
