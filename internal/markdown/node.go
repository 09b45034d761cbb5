package markdown

// Node is a display node. The set of implementations is closed: only types in
// this package satisfy it.
type Node interface {
	node()
}

// Document is the root of a parsed body.
type Document struct {
	Children []Node
}

// Heading is a section heading with a generated anchor id.
type Heading struct {
	Level    int // 1-6
	ID       string
	Children []Node
}

type Paragraph struct {
	Children []Node
}

// Text is literal text; it is always escaped on output.
type Text struct {
	Value string
}

// LineBreak is a hard line break.
type LineBreak struct{}

// Emphasis is *em* (Level 1) or **strong** (Level 2).
type Emphasis struct {
	Level    int
	Children []Node
}

type Strikethrough struct {
	Children []Node
}

// CodeSpan is inline code.
type CodeSpan struct {
	Code string
}

// CodeBlock is a fenced or indented code block. Language is empty when unknown.
type CodeBlock struct {
	Language string
	Code     string
}

// Link is a hyperlink classified by its destination.
type Link struct {
	Href     string
	Title    string
	Kind     LinkKind
	Children []Node
}

// Image is an image; Alt is passed through unvalidated.
type Image struct {
	Src   string
	Alt   string
	Title string
}

type List struct {
	Ordered bool
	Start   int
	Items   []*ListItem
}

type ListItem struct {
	Children []Node
}

// Checkbox is the marker of a task list item.
type Checkbox struct {
	Checked bool
}

// Table has a header row and body rows of plain cell strings. Row lengths are
// not checked against the header.
type Table struct {
	Header []string
	Align  []string // "left", "right", "center" or "" per header column
	Rows   [][]string
}

type Blockquote struct {
	Children []Node
}

type ThematicBreak struct{}

// RawHTML is embedded markup or a component the renderer does not know. It is
// shown literally.
type RawHTML struct {
	Value string
	Block bool
}

func (*Document) node()      {}
func (*Heading) node()       {}
func (*Paragraph) node()     {}
func (*Text) node()          {}
func (*LineBreak) node()     {}
func (*Emphasis) node()      {}
func (*Strikethrough) node() {}
func (*CodeSpan) node()      {}
func (*CodeBlock) node()     {}
func (*Link) node()          {}
func (*Image) node()         {}
func (*List) node()          {}
func (*ListItem) node()      {}
func (*Checkbox) node()      {}
func (*Table) node()         {}
func (*Blockquote) node()    {}
func (*ThematicBreak) node() {}
func (*RawHTML) node()       {}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		return v.Children
	case *Heading:
		return v.Children
	case *Paragraph:
		return v.Children
	case *Emphasis:
		return v.Children
	case *Strikethrough:
		return v.Children
	case *Link:
		return v.Children
	case *ListItem:
		return v.Children
	case *Blockquote:
		return v.Children
	case *List:
		out := make([]Node, len(v.Items))
		for i, item := range v.Items {
			out[i] = item
		}
		return out
	}
	return nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// PlainText concatenates the text content below n.
func PlainText(n Node) string {
	var sb []byte
	Walk(n, func(c Node) bool {
		switch v := c.(type) {
		case *Text:
			sb = append(sb, v.Value...)
		case *CodeSpan:
			sb = append(sb, v.Code...)
		case *Image:
			sb = append(sb, v.Alt...)
		}
		return true
	})
	return string(sb)
}
