package mailer

import "fmt"

// Tags are key/value labels attached to a message (campaign id, variant...).
type Tags map[string]string

// Address formats an RFC 5322 mailbox. An empty name yields the bare address.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a single outgoing message.
type Email struct {
	Headers map[string]string // Custom headers
	Tags    Tags              // Provider-side labels
	Subject string            // Email subject
	HTML    string            // HTML body content
	Text    string            // Plain text alternative
	From    string            // Sender; Mailer fills it from Config when empty
	ReplyTo string            // Reply-to address
	To      []string          // Recipients (at least one required)
}
