// Package render turns a final, fully resolved document tree into HTML.
// Code blocks are highlighted with chroma; "d2" code blocks are compiled
// to inline SVG with the embedded d2 engine.
package render

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
)

// HTML renders documents to HTML.
type HTML struct {
	cfg *config.Config
	log *zap.SugaredLogger

	// RenderMessages embeds runtime messages and invalid nodes visibly in
	// the output instead of rendering their fallbacks.
	RenderMessages bool
}

func NewHTML(cfg *config.Config, logger *zap.SugaredLogger) *HTML {
	if logger == nil {
		logger = zap.S()
	}
	return &HTML{cfg: cfg, log: logger}
}

// Render produces the HTML for a merged document tree.
func (h *HTML) Render(root ast.RootElement) []byte {
	br := &ByteRenderer{}
	h.renderBlocks(br, root.Blocks)
	return br.CloneBytes()
}

func (h *HTML) renderBlocks(br *ByteRenderer, blocks []ast.Block) {
	for _, b := range blocks {
		h.renderBlock(br, b)
	}
}

func (h *HTML) renderBlock(br *ByteRenderer, b ast.Block) {
	switch n := b.(type) {
	case ast.RawContent:
		br.Render(n.Content)
	case ast.EmbeddedRoot:
		h.renderBlocks(br, n.Blocks)
	case ast.BlockSequence:
		h.renderBlocks(br, n.Blocks)
	case ast.Paragraph:
		br.Render("<p", attrs(n.Options), ">")
		h.renderSpans(br, n.Content)
		br.Renderln("</p>")
	case ast.Header:
		h.renderHeader(br, n)
	case ast.Section:
		br.Renderln("<section>")
		h.renderHeader(br, n.Header)
		h.renderBlocks(br, n.Content)
		br.Renderln("</section>")
	case ast.BulletList:
		br.Renderln("<ul", attrs(n.Options), ">")
		h.renderItems(br, n.Items)
		br.Renderln("</ul>")
	case ast.EnumList:
		br.Render("<ol", attrs(n.Options))
		if n.Start > 1 {
			br.Render(` start="`, n.Start, `"`)
		}
		br.Renderln(">")
		h.renderItems(br, n.Items)
		br.Renderln("</ol>")
	case ast.CodeBlock:
		h.renderCode(br, n)
	case ast.QuotedBlock:
		br.Renderln("<blockquote", attrs(n.Options), ">")
		h.renderBlocks(br, n.Content)
		if len(n.Attribution) > 0 {
			br.Render("<footer>")
			h.renderSpans(br, n.Attribution)
			br.Renderln("</footer>")
		}
		br.Renderln("</blockquote>")
	case ast.Rule:
		br.Renderln("<hr>")
	case ast.Footnote:
		br.Render(`<aside`, attrs(n.Options), `><sup>`, html.EscapeString(n.Label), `</sup>`)
		h.renderBlocks(br, n.Content)
		br.Renderln("</aside>")
	case ast.Citation:
		br.Render(`<aside`, attrs(n.Options), `><cite>`, html.EscapeString(n.Label), `</cite>`)
		h.renderBlocks(br, n.Content)
		br.Renderln("</aside>")
	case ast.InternalLinkTarget:
		br.Render(`<a`, attrs(n.Options), `></a>`)
	case ast.RuntimeMessage:
		h.renderMessage(br, n)
	case ast.InvalidBlock:
		if h.RenderMessages {
			h.renderMessage(br, n.Message)
		} else if n.Fallback != nil {
			h.renderBlock(br, n.Fallback)
		}
	case ast.FragmentDefinition:
		// Fragments render only through template placeholders.
	default:
		h.renderUnknown(br, b)
	}
}

func (h *HTML) renderHeader(br *ByteRenderer, n ast.Header) {
	level := n.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	br.Render("<h", level, attrs(n.Options), ">")
	h.renderSpans(br, n.Content)
	br.Renderln("</h", level, ">")
}

func (h *HTML) renderItems(br *ByteRenderer, items []ast.ListItem) {
	for _, it := range items {
		br.Render("<li>")
		h.renderBlocks(br, it.Content)
		br.Renderln("</li>")
	}
}

func (h *HTML) renderSpans(br *ByteRenderer, spans []ast.Span) {
	for _, s := range spans {
		h.renderSpan(br, s)
	}
}

func (h *HTML) renderSpan(br *ByteRenderer, s ast.Span) {
	switch n := s.(type) {
	case ast.Text:
		if len(n.Options.Styles) > 0 || n.Options.Id != "" {
			br.Render("<span", attrs(n.Options), ">", html.EscapeString(n.Content), "</span>")
			return
		}
		br.Render(html.EscapeString(n.Content))
	case ast.SpanSequence:
		h.renderSpans(br, n.Spans)
	case ast.Emphasized:
		br.Render("<em", attrs(n.Options), ">")
		h.renderSpans(br, n.Content)
		br.Render("</em>")
	case ast.Strong:
		br.Render("<strong", attrs(n.Options), ">")
		h.renderSpans(br, n.Content)
		br.Render("</strong>")
	case ast.Literal:
		br.Render("<code", attrs(n.Options), ">", html.EscapeString(n.Content), "</code>")
	case ast.LineBreak:
		br.Render("<br>")
	case ast.SpanLink:
		br.Render(`<a href="`, html.EscapeString(n.Target.Href()), `"`)
		if n.Title != "" {
			br.Render(` title="`, html.EscapeString(n.Title), `"`)
		}
		br.Render(attrs(n.Options), ">")
		h.renderSpans(br, n.Content)
		br.Render("</a>")
	case ast.Image:
		br.Render(`<img src="`, html.EscapeString(n.Target.Href()), `" alt="`, html.EscapeString(n.Alt), `"`)
		if n.Title != "" {
			br.Render(` title="`, html.EscapeString(n.Title), `"`)
		}
		br.Render(">")
	case ast.InternalLinkTarget:
		br.Render(`<a`, attrs(n.Options), `></a>`)
	case ast.RuntimeMessage:
		h.renderMessage(br, n)
	case ast.InvalidSpan:
		if h.RenderMessages {
			h.renderMessage(br, n.Message)
		} else if n.Fallback != nil {
			h.renderSpan(br, n.Fallback)
		}
	default:
		h.renderUnknown(br, s)
	}
}

// renderUnknown keeps output flowing for node kinds this renderer does
// not know: containers render their children, text containers their text.
func (h *HTML) renderUnknown(br *ByteRenderer, el ast.Element) {
	switch c := el.(type) {
	case ast.BlockContainer:
		h.renderBlocks(br, c.BlockChildren())
	case ast.SpanContainer:
		h.renderSpans(br, c.SpanChildren())
	case ast.ListContainer:
		h.renderItems(br, c.ListItems())
	case ast.TextContainer:
		br.Render(html.EscapeString(c.Text()))
	default:
		h.log.Debugw("skipping unrenderable element", "type", fmt.Sprintf("%T", el))
	}
}

func (h *HTML) renderMessage(br *ByteRenderer, m ast.RuntimeMessage) {
	if !h.RenderMessages {
		return
	}
	br.Render(`<span class="runtime-message `, m.Severity.String(), `">`,
		html.EscapeString(m.Content), "</span>")
}

// renderCode highlights a code block with chroma, or compiles it with the
// embedded d2 engine when the language is "d2". Highlighting problems
// degrade to a plain <pre> block.
func (h *HTML) renderCode(br *ByteRenderer, n ast.CodeBlock) {
	if n.Language == "d2" {
		h.renderD2(br, n)
		return
	}

	l := lexers.Get(n.Language)
	if l == nil {
		l = lexers.Analyse(n.Content)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	styleName := h.cfg.String("docweave.html.codeStyle", "github")
	s := styles.Get(styleName)

	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))

	it, err := l.Tokenise(nil, n.Content)
	if err == nil {
		code := &ByteRenderer{}
		if err = f.Format(code, s, it); err == nil {
			br.Render(`<pre class="chroma"><code>`)
			br.Render(code.Bytes())
			br.Renderln("</code></pre>")
			return
		}
	}
	h.log.Warnw("code highlighting failed", "language", n.Language, "error", err)
	br.Render("<pre><code>", html.EscapeString(n.Content))
	br.Renderln("</code></pre>")
}

func (h *HTML) renderD2(br *ByteRenderer, n ast.CodeBlock) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		h.d2Failure(br, n, err)
		return
	}
	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(context.Background(), n.Content, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		h.d2Failure(br, n, err)
		return
	}
	body, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		h.d2Failure(br, n, err)
		return
	}
	br.Render(`<figure class="diagram">`)
	br.Render(body)
	br.Renderln("</figure>")
}

// d2Failure falls back to the diagram source so the document still shows
// something recognizable.
func (h *HTML) d2Failure(br *ByteRenderer, n ast.CodeBlock, err error) {
	h.log.Warnw("d2 diagram failed", "error", err)
	h.renderMessage(br, ast.RuntimeMessage{Severity: ast.Warning, Content: "d2 diagram failed: " + err.Error()})
	br.Render("<pre><code>", html.EscapeString(n.Content))
	br.Renderln("</code></pre>")
}

// attrs renders id/class attributes from element options.
func attrs(o ast.Options) string {
	var sb strings.Builder
	if o.Id != "" {
		sb.WriteString(` id="`)
		sb.WriteString(html.EscapeString(o.Id))
		sb.WriteString(`"`)
	}
	if len(o.Styles) > 0 {
		sb.WriteString(` class="`)
		sb.WriteString(html.EscapeString(strings.Join(o.Styles, " ")))
		sb.WriteString(`"`)
	}
	return sb.String()
}
