package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// renderMarkdown converts an assistant reply to styled terminal text.
// The agent's replies are short conversational markdown, so the renderer
// covers paragraphs, headings, emphasis, code, and lists, and falls back to
// plain text for anything else.
func renderMarkdown(source string, styles Styles) string {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	r := mdRenderer{src: src, styles: styles}
	var b strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		block := r.block(n)
		if block == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block)
	}
	return b.String()
}

type mdRenderer struct {
	src    []byte
	styles Styles
}

func (r mdRenderer) block(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Heading:
		return r.styles.Accent.Render(r.inlineChildren(node, lipgloss.NewStyle()))
	case *ast.Paragraph, *ast.TextBlock:
		return r.inlineChildren(n, lipgloss.NewStyle())
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(r.src))
		}
		return r.styles.Code.Render(strings.TrimRight(b.String(), "\n"))
	case *ast.List:
		var items []string
		marker := "• "
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var parts []string
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				parts = append(parts, r.block(c))
			}
			items = append(items, marker+strings.Join(parts, "\n"))
		}
		return strings.Join(items, "\n")
	case *ast.Blockquote:
		var parts []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, r.block(c))
		}
		return r.styles.Muted.Render("> " + strings.Join(parts, "\n"))
	case *ast.ThematicBreak:
		return r.styles.Muted.Render("───")
	default:
		return r.inlineChildren(n, lipgloss.NewStyle())
	}
}

func (r mdRenderer) inlineChildren(n ast.Node, style lipgloss.Style) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.inline(c, style))
	}
	return b.String()
}

func (r mdRenderer) inline(n ast.Node, style lipgloss.Style) string {
	switch node := n.(type) {
	case *ast.Text:
		text := string(node.Segment.Value(r.src))
		if node.SoftLineBreak() {
			text += " "
		}
		if node.HardLineBreak() {
			text += "\n"
		}
		return style.Render(text)
	case *ast.Emphasis:
		s := r.styles.Emphasis
		if node.Level >= 2 {
			s = r.styles.Strong
		}
		return r.inlineChildren(node, s)
	case *ast.CodeSpan:
		return r.styles.Code.Render(r.inlineChildren(node, lipgloss.NewStyle()))
	case *ast.Link:
		return r.inlineChildren(node, style) + r.styles.Muted.Render(" ("+string(node.Destination)+")")
	case *ast.AutoLink:
		return style.Render(string(node.URL(r.src)))
	default:
		return r.inlineChildren(n, style)
	}
}
