package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parse converts a Markdown body into a Document. Parsing never fails:
// constructs the grammar cannot interpret come through as text or RawHTML.
func Parse(body []byte) *Document {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(body))

	c := converter{src: body}
	return &Document{Children: c.children(root)}
}

type converter struct {
	src []byte
}

func (c *converter) children(n gmast.Node) []Node {
	var out []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.convert(child)...)
	}
	return out
}

// convert maps one goldmark node to zero or more display nodes. Unknown kinds
// are flattened into their children.
func (c *converter) convert(n gmast.Node) []Node {
	switch v := n.(type) {
	case *gmast.Heading:
		children := c.children(v)
		h := &Heading{Level: clampLevel(v.Level), Children: children}
		h.ID = Slugify(PlainText(h))
		return []Node{h}

	case *gmast.Paragraph:
		return []Node{&Paragraph{Children: c.children(v)}}

	case *gmast.TextBlock:
		// Tight list items hold text blocks; they render without a <p>.
		return c.children(v)

	case *gmast.Text:
		out := []Node{&Text{Value: string(v.Segment.Value(c.src))}}
		switch {
		case v.HardLineBreak():
			out = append(out, &LineBreak{})
		case v.SoftLineBreak():
			out = append(out, &Text{Value: "\n"})
		}
		return out

	case *gmast.String:
		return []Node{&Text{Value: string(v.Value)}}

	case *gmast.Emphasis:
		return []Node{&Emphasis{Level: v.Level, Children: c.children(v)}}

	case *east.Strikethrough:
		return []Node{&Strikethrough{Children: c.children(v)}}

	case *gmast.CodeSpan:
		return []Node{&CodeSpan{Code: c.inlineText(v)}}

	case *gmast.FencedCodeBlock:
		lang := ""
		if v.Info != nil {
			lang = string(v.Language(c.src))
		}
		return []Node{&CodeBlock{Language: lang, Code: c.lines(v)}}

	case *gmast.CodeBlock:
		return []Node{&CodeBlock{Code: c.lines(v)}}

	case *gmast.Link:
		href := string(v.Destination)
		return []Node{&Link{
			Href:     href,
			Title:    string(v.Title),
			Kind:     ClassifyLink(href),
			Children: c.children(v),
		}}

	case *gmast.AutoLink:
		href := string(v.URL(c.src))
		if v.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		return []Node{&Link{
			Href:     href,
			Kind:     ClassifyLink(href),
			Children: []Node{&Text{Value: string(v.Label(c.src))}},
		}}

	case *gmast.Image:
		return []Node{&Image{
			Src:   string(v.Destination),
			Title: string(v.Title),
			Alt:   c.inlineText(v),
		}}

	case *gmast.List:
		list := &List{Ordered: v.IsOrdered(), Start: v.Start}
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			list.Items = append(list.Items, &ListItem{Children: c.children(item)})
		}
		return []Node{list}

	case *east.TaskCheckBox:
		return []Node{&Checkbox{Checked: v.IsChecked}}

	case *gmast.Blockquote:
		return []Node{&Blockquote{Children: c.children(v)}}

	case *gmast.ThematicBreak:
		return []Node{&ThematicBreak{}}

	case *east.Table:
		return []Node{c.table(v)}

	case *gmast.HTMLBlock:
		var buf bytes.Buffer
		buf.WriteString(c.lines(v))
		if v.HasClosure() {
			closure := v.ClosureLine
			lines := v.Lines()
			if n := lines.Len(); n == 0 || lines.At(n-1).Start != closure.Start {
				buf.Write(closure.Value(c.src))
			}
		}
		return []Node{&RawHTML{Value: strings.TrimRight(buf.String(), "\n"), Block: true}}

	case *gmast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(c.src))
		}
		return []Node{&RawHTML{Value: buf.String()}}
	}

	return c.children(n)
}

func (c *converter) table(t *east.Table) *Table {
	out := &Table{}
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(c.inlineText(cell)))
			if row.Kind() == east.KindTableHeader {
				out.Align = append(out.Align, alignment(cell))
			}
		}
		if row.Kind() == east.KindTableHeader {
			out.Header = cells
			continue
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func alignment(n gmast.Node) string {
	cell, ok := n.(*east.TableCell)
	if !ok {
		return ""
	}
	switch cell.Alignment {
	case east.AlignLeft:
		return "left"
	case east.AlignRight:
		return "right"
	case east.AlignCenter:
		return "center"
	}
	return ""
}

// inlineText returns the plain text below an inline goldmark node.
func (c *converter) inlineText(n gmast.Node) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(node gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *gmast.Text:
			sb.Write(v.Segment.Value(c.src))
			if v.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(v.Value)
		case *gmast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				sb.Write(seg.Value(c.src))
			}
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

// lines joins the raw source lines of a block node.
func (c *converter) lines(n gmast.Node) string {
	var sb strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(c.src))
	}
	return sb.String()
}

func clampLevel(level int) int {
	return min(max(level, 1), 6)
}
