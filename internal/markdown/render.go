package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer turns a Document into HTML. It holds no per-document state and is
// safe for concurrent use if its Highlighter is.
type Renderer struct {
	hl Highlighter
}

// NewRenderer returns a renderer using hl for code. A nil hl leaves code unstyled.
func NewRenderer(hl Highlighter) *Renderer {
	if hl == nil {
		hl = PlainHighlighter{}
	}
	return &Renderer{hl: hl}
}

// Render serializes doc. All text is escaped by the HTML serializer.
func (r *Renderer) Render(doc *Document) (template.HTML, error) {
	var buf bytes.Buffer
	for _, child := range doc.Children {
		for _, n := range r.block(child) {
			if err := html.Render(&buf, n); err != nil {
				return "", fmt.Errorf("render html: %w", err)
			}
			buf.WriteByte('\n')
		}
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html.Render
}

// RenderMarkdown parses and renders body in one step.
func (r *Renderer) RenderMarkdown(body []byte) (template.HTML, error) {
	return r.Render(Parse(body))
}

func el(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendAll(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// block renders a node in block context. Inline nodes that end up at block
// level are wrapped in a paragraph.
func (r *Renderer) block(n Node) []*html.Node {
	switch v := n.(type) {
	case *Heading:
		h := el("h"+strconv.Itoa(v.Level), "id", v.ID)
		h.AppendChild(el("a", "href", "#"+v.ID, "class", "anchor", "aria-hidden", "true"))
		return []*html.Node{appendAll(h, r.inlines(v.Children))}

	case *Paragraph:
		if len(v.Children) == 1 {
			if img, ok := v.Children[0].(*Image); ok {
				return []*html.Node{r.figure(img)}
			}
		}
		return []*html.Node{appendAll(el("p"), r.inlines(v.Children))}

	case *CodeBlock:
		return []*html.Node{r.codeBlock(v)}

	case *List:
		return []*html.Node{r.list(v)}

	case *Table:
		return []*html.Node{r.table(v)}

	case *Blockquote:
		q := el("blockquote")
		for _, c := range v.Children {
			appendAll(q, r.block(c))
		}
		return []*html.Node{q}

	case *ThematicBreak:
		return []*html.Node{el("hr")}

	case *RawHTML:
		if v.Block {
			pre := el("pre", "class", "raw")
			pre.AppendChild(textNode(v.Value))
			return []*html.Node{pre}
		}
	}
	return []*html.Node{appendAll(el("p"), r.inline(n))}
}

func (r *Renderer) inlines(nodes []Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, r.inline(n)...)
	}
	return out
}

func (r *Renderer) inline(n Node) []*html.Node {
	switch v := n.(type) {
	case *Text:
		return []*html.Node{textNode(v.Value)}

	case *LineBreak:
		return []*html.Node{el("br")}

	case *Emphasis:
		tag := "em"
		if v.Level >= 2 {
			tag = "strong"
		}
		return []*html.Node{appendAll(el(tag), r.inlines(v.Children))}

	case *Strikethrough:
		return []*html.Node{appendAll(el("del"), r.inlines(v.Children))}

	case *CodeSpan:
		code := el("code", "class", "chroma")
		return []*html.Node{appendAll(code, r.tokens(v.Code, ""))}

	case *Link:
		return []*html.Node{appendAll(r.anchor(v), r.inlines(v.Children))}

	case *Image:
		return []*html.Node{r.img(v, "span")}

	case *Checkbox:
		box := el("input", "type", "checkbox", "disabled", "")
		if v.Checked {
			box.Attr = append(box.Attr, html.Attribute{Key: "checked"})
		}
		return []*html.Node{box}

	case *RawHTML:
		return []*html.Node{textNode(v.Value)}

	case *Heading, *Paragraph, *CodeBlock, *List, *Table, *Blockquote, *ThematicBreak:
		return r.block(n)
	}

	// Containers without their own element contribute their children.
	return r.inlines(Children(n))
}

func (r *Renderer) anchor(l *Link) *html.Node {
	a := el("a", "href", l.Href)
	if l.Title != "" {
		a.Attr = append(a.Attr, html.Attribute{Key: "title", Val: l.Title})
	}
	if l.Kind == LinkExternal {
		a.Attr = append(a.Attr,
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noopener noreferrer"})
	}
	return a
}

// figure renders a stand-alone image as a responsive block.
func (r *Renderer) figure(img *Image) *html.Node {
	fig := r.img(img, "figure")
	if img.Title != "" {
		caption := el("figcaption")
		caption.AppendChild(textNode(img.Title))
		fig.AppendChild(caption)
	}
	return fig
}

func (r *Renderer) img(img *Image, wrapper string) *html.Node {
	w := el(wrapper, "class", "image")
	tag := el("img", "src", img.Src, "alt", img.Alt, "loading", "lazy", "decoding", "async")
	if img.Title != "" {
		tag.Attr = append(tag.Attr, html.Attribute{Key: "title", Val: img.Title})
	}
	w.AppendChild(tag)
	return w
}

func (r *Renderer) codeBlock(cb *CodeBlock) *html.Node {
	pre := el("pre", "class", "chroma")
	code := el("code")
	if cb.Language != "" {
		code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + cb.Language})
		pre.Attr = append(pre.Attr, html.Attribute{Key: "data-language", Val: cb.Language})
	}
	pre.AppendChild(appendAll(code, r.tokens(cb.Code, cb.Language)))
	return pre
}

func (r *Renderer) tokens(code, language string) []*html.Node {
	var out []*html.Node
	for _, tok := range r.hl.Highlight(code, language) {
		if tok.Class == "" {
			out = append(out, textNode(tok.Value))
			continue
		}
		span := el("span", "class", tok.Class)
		span.AppendChild(textNode(tok.Value))
		out = append(out, span)
	}
	return out
}

func (r *Renderer) list(l *List) *html.Node {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	list := el(tag)
	if l.Ordered && l.Start > 1 {
		list.Attr = append(list.Attr, html.Attribute{Key: "start", Val: strconv.Itoa(l.Start)})
	}
	for _, item := range l.Items {
		li := el("li")
		for _, c := range item.Children {
			if isInline(c) {
				appendAll(li, r.inline(c))
				continue
			}
			appendAll(li, r.block(c))
		}
		list.AppendChild(li)
	}
	return list
}

func (r *Renderer) table(t *Table) *html.Node {
	table := el("table")
	if len(t.Header) > 0 {
		tr := el("tr")
		for i, cell := range t.Header {
			tr.AppendChild(r.cell("th", cell, t.alignAt(i)))
		}
		thead := el("thead")
		thead.AppendChild(tr)
		table.AppendChild(thead)
	}
	if len(t.Rows) > 0 {
		tbody := el("tbody")
		for _, row := range t.Rows {
			tr := el("tr")
			for i, cell := range row {
				tr.AppendChild(r.cell("td", cell, t.alignAt(i)))
			}
			tbody.AppendChild(tr)
		}
		table.AppendChild(tbody)
	}
	return table
}

func (t *Table) alignAt(i int) string {
	if i < len(t.Align) {
		return t.Align[i]
	}
	return ""
}

func (r *Renderer) cell(tag, value, align string) *html.Node {
	c := el(tag)
	if align != "" {
		c.Attr = append(c.Attr, html.Attribute{Key: "style", Val: "text-align:" + align})
	}
	c.AppendChild(textNode(value))
	return c
}

func isInline(n Node) bool {
	switch n.(type) {
	case *Heading, *Paragraph, *CodeBlock, *List, *Table, *Blockquote, *ThematicBreak:
		return false
	case *RawHTML:
		return !n.(*RawHTML).Block
	}
	return true
}

// Excerpt returns the first paragraph of doc as plain text, cut at limit runes.
func Excerpt(doc *Document, limit int) string {
	for _, n := range doc.Children {
		p, ok := n.(*Paragraph)
		if !ok {
			continue
		}
		text := strings.Join(strings.Fields(PlainText(p)), " ")
		if text == "" {
			continue
		}
		runes := []rune(text)
		if len(runes) <= limit {
			return text
		}
		return strings.TrimSpace(string(runes[:limit])) + "…"
	}
	return ""
}
