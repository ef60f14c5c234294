package sanitizer_test

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"

	"github.com/deliverai/deliverai/pkg/sanitizer"
)

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips script injection but keeps safe tags",
			input:    `<p>Hello</p><script>alert('xss')</script>`,
			expected: "<p>Hello</p>",
		},
		{
			name:     "allows basic formatting",
			input:    `<p>Hello <strong>world</strong></p>`,
			expected: "<p>Hello <strong>world</strong></p>",
		},
		{
			name:     "allows headings",
			input:    `<h1>Spring offer</h1><h3>Details</h3>`,
			expected: `<h1>Spring offer</h1><h3>Details</h3>`,
		},
		{
			name:     "allows lists",
			input:    `<ul><li>item 1</li><li>item 2</li></ul>`,
			expected: "<ul><li>item 1</li><li>item 2</li></ul>",
		},
		{
			name:     "allows strikethrough",
			input:    `<p><del>old price</del></p>`,
			expected: `<p><del>old price</del></p>`,
		},
		{
			name:     "allows safe links with nofollow",
			input:    `<a href="https://example.com">link</a>`,
			expected: `<a href="https://example.com" rel="nofollow">link</a>`,
		},
		{
			name:     "strips javascript URLs from links",
			input:    `<a href="javascript:alert('xss')">click</a>`,
			expected: "click",
		},
		{
			name:     "strips event handlers",
			input:    `<p onclick="alert('xss')">content</p>`,
			expected: "<p>content</p>",
		},
		{
			name:     "strips style attribute",
			input:    `<p style="background:url(javascript:alert('xss'))">content</p>`,
			expected: "<p>content</p>",
		},
		{
			name:     "strips img tags",
			input:    `<img src="x" onerror="alert('xss')">`,
			expected: "",
		},
		{
			name:     "strips div tags",
			input:    `<div>content</div>`,
			expected: "content",
		},
		{
			name:     "strips class outside links",
			input:    `<p class="cta">content</p>`,
			expected: "<p>content</p>",
		},
		{
			name:     "strips unknown link classes",
			input:    `<a href="https://example.com" class="evil">x</a>`,
			expected: `<a href="https://example.com" rel="nofollow">x</a>`,
		},
		{
			name:     "handles plain text",
			input:    "normal text without HTML",
			expected: "normal text without HTML",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "allows line breaks",
			input:    `line1<br>line2`,
			expected: `line1<br>line2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, sanitizer.SanitizeHTML(tt.input))
		})
	}
}

func TestSanitizeHTML_KeepsCallToActionClass(t *testing.T) {
	t.Parallel()

	got := sanitizer.SanitizeHTML(`<a href="https://example.com/demo" class="cta">Book</a>`)

	assert.Contains(t, got, `href="https://example.com/demo"`)
	assert.Contains(t, got, `class="cta"`)
	assert.Contains(t, got, `rel="nofollow"`)
	assert.Contains(t, got, ">Book</a>")
}

func TestSanitizeHTML_AllowsMailto(t *testing.T) {
	t.Parallel()

	got := sanitizer.SanitizeHTML(`<a href="mailto:sales@example.com">Write us</a>`)
	assert.Contains(t, got, `href="mailto:sales@example.com"`)
}

func TestSanitizeHTMLCustom(t *testing.T) {
	t.Parallel()

	t.Run("with nil policy returns input unchanged", func(t *testing.T) {
		t.Parallel()

		input := `<script>alert('xss')</script>`
		assert.Equal(t, input, sanitizer.SanitizeHTMLCustom(input, nil))
	})

	t.Run("with strict policy strips everything", func(t *testing.T) {
		t.Parallel()

		input := `<p>Hello <strong>world</strong></p>`
		assert.Equal(t, "Hello world", sanitizer.SanitizeHTMLCustom(input, bluemonday.StrictPolicy()))
	})
}
