// Package sanitizer cleans HTML produced from untrusted input before it is
// shown in the dashboard or placed into an outgoing message.
package sanitizer

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	initOnce    sync.Once
)

// initPolicies builds the email body policy: Markdown output elements,
// http(s)/mailto links with rel="nofollow", and the "cta" class on links.
func initPolicies() {
	initOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowURLSchemes("mailto", "http", "https")
		p.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^cta$`)).OnElements("a")
		p.RequireNoFollowOnLinks(true)
		emailPolicy = p
	})
}

// SanitizeHTML applies the email body policy to s.
func SanitizeHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// SanitizeHTMLCustom applies policy to s. A nil policy returns s unchanged.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
