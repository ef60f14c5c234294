package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// CallToActionNode is an inline button link.
type CallToActionNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

// KindCallToAction is the ast.NodeKind of CallToActionNode.
var KindCallToAction = ast.NewNodeKind("CallToAction")

// Kind implements ast.Node.
func (n *CallToActionNode) Kind() ast.NodeKind {
	return KindCallToAction
}

// Dump implements ast.Node.
func (n *CallToActionNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":   string(n.URL),
		"Label": string(n.Label),
	}, nil)
}

var ctaPrefix = []byte("[!button|")

type ctaParser struct{}

// NewCallToActionParser returns an inline parser for [!button|Label](url).
func NewCallToActionParser() parser.InlineParser {
	return &ctaParser{}
}

func (p *ctaParser) Trigger() []byte {
	return []byte{'['}
}

func (p *ctaParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, ctaPrefix) {
		return nil
	}

	rest := line[len(ctaPrefix):]
	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd < 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}

	target := rest[labelEnd+2:]
	urlEnd := bytes.IndexByte(target, ')')
	if urlEnd < 0 {
		return nil
	}

	// prefix + label + "](" + url + ")"
	block.Advance(len(ctaPrefix) + labelEnd + 2 + urlEnd + 1)

	return &CallToActionNode{
		Label: rest[:labelEnd],
		URL:   target[:urlEnd],
	}
}

type ctaRenderer struct {
	html.Config
}

// NewCallToActionRenderer renders CallToActionNode as an anchor with class "cta".
func NewCallToActionRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &ctaRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *ctaRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCallToAction, r.render)
}

func (r *ctaRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*CallToActionNode)
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(n.URL))
	_, _ = w.WriteString(`" class="cta">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString(`</a>`)

	return ast.WalkContinue, nil
}

type ctaExtension struct{}

// NewCallToActionExtension registers the button parser and renderer.
func NewCallToActionExtension() goldmark.Extender {
	return &ctaExtension{}
}

func (e *ctaExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewCallToActionParser(), 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewCallToActionRenderer(), 50),
	))
}
