// Package mailer defines the message type and sending abstraction used by the
// campaign dispatcher.
//
// # Architecture
//
//   - Sender: interface that delivery backends implement
//   - Mailer: Sender decorator that validates messages and applies the default sender address
//   - Renderer: converts a Markdown body into HTML plus a plain text alternative
//
// The only backend shipped with the module is the simulated sender in
// pkg/mailer/simulated. Nothing leaves the process.
//
// # Usage
//
//	renderer := mailer.NewRenderer(mailer.WithHTMLFilter(sanitizer.SanitizeHTML))
//	body, err := renderer.Render("Hello **there**!\n\n[!button|Book a demo](https://example.com/demo)")
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(simulated.New(), mailer.Config{FromName: "DeliverAI", FromEmail: "campaigns@example.com"})
//	err = m.Send(ctx, &mailer.Email{
//		To:      []string{"lead@example.com"},
//		Subject: "Quick question",
//		HTML:    body.HTML,
//		Text:    body.Text,
//	})
//
// # Call-to-action buttons
//
// Bodies may contain button links:
//
//	[!button|Button Label](https://example.com/action)
//
// which render as:
//
//	<a href="https://example.com/action" class="cta">Button Label</a>
package mailer
