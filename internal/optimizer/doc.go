// Package optimizer holds the backend-independent parts of the optimization
// client: the prompt configuration, decoding of the structured response and
// the sentinel errors shared by every backend.
//
// The prompt is YAML with three keys:
//
//	model: gemini-3-flash-preview
//	system_instruction: You are an expert email deliverability engineer...
//	user_template: |-
//	  Recipients: {{ join .Recipients ", " }}
//	  Subject: {{ .Subject }}
//	  Body: {{ .Body }}
//
// The user template is a text/template executed against campaign.EmailDraft.
// Backends live in subpackages; see optimizer/gemini.
package optimizer
