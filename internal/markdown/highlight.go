package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Token is a run of source text with the CSS class it is styled with. An
// empty Class means unstyled text.
type Token struct {
	Class string
	Value string
}

// Highlighter maps source text to styled tokens. Implementations only
// tokenize; they never evaluate the code.
type Highlighter interface {
	Highlight(code, language string) []Token
}

// ChromaHighlighter tokenizes with chroma lexers and emits chroma's short
// class names, so the stylesheet from CSS applies.
type ChromaHighlighter struct {
	style *chroma.Style
}

// NewChromaHighlighter returns a highlighter for the named chroma style. An
// unknown name falls back to chroma's default style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	return &ChromaHighlighter{style: styles.Get(styleName)}
}

// Highlight tokenizes code. An empty or unknown language is guessed from the
// text; if tokenizing fails the whole input is returned as one plain token.
func (h *ChromaHighlighter) Highlight(code, language string) []Token {
	lexer := pickLexer(code, language)
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return []Token{{Value: code}}
	}

	var out []Token
	for _, tok := range it.Tokens() {
		if tok.Value == "" {
			continue
		}
		cls := tokenClass(tok.Type)
		if n := len(out); n > 0 && out[n-1].Class == cls {
			out[n-1].Value += tok.Value
			continue
		}
		out = append(out, Token{Class: cls, Value: tok.Value})
	}
	if !strings.HasSuffix(code, "\n") {
		out = trimAddedNewline(out)
	}
	return out
}

// trimAddedNewline drops the trailing newline lexers with EnsureNL append to
// input that lacks one.
func trimAddedNewline(tokens []Token) []Token {
	n := len(tokens)
	if n == 0 || !strings.HasSuffix(tokens[n-1].Value, "\n") {
		return tokens
	}
	last := strings.TrimSuffix(tokens[n-1].Value, "\n")
	if last == "" {
		return tokens[:n-1]
	}
	tokens[n-1].Value = last
	return tokens
}

// CSS writes the class-based stylesheet for the configured style.
func (h *ChromaHighlighter) CSS(w io.Writer) error {
	f := chromahtml.New(chromahtml.WithClasses(true))
	if err := f.WriteCSS(w, h.style); err != nil {
		return fmt.Errorf("write chroma css: %w", err)
	}
	return nil
}

// StyleName returns the resolved chroma style name.
func (h *ChromaHighlighter) StyleName() string {
	return h.style.Name
}

func pickLexer(code, language string) chroma.Lexer {
	if language = strings.TrimSpace(language); language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(code); l != nil {
		return l
	}
	return lexers.Fallback
}

// tokenClass resolves the chroma class of a token type, walking up to the
// sub-category and category when the exact type has no class of its own.
func tokenClass(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if cls, ok := chroma.StandardTypes[candidate]; ok {
			return cls
		}
	}
	return ""
}

// PlainHighlighter returns code as a single unstyled token.
type PlainHighlighter struct{}

func (PlainHighlighter) Highlight(code, _ string) []Token {
	return []Token{{Value: code}}
}
