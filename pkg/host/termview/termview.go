// Package termview draws an in-memory output tree as styled terminal text.
//
// Nodes whose children are all text render on one line. Other nodes stack
// their children vertically, except that runs of adjacent buttons share a
// row. Children of lists and plain containers are indented.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/fiber/pkg/host/memhost"
)

const indent = "  "

// Styles controls how each kind of node is drawn.
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Text     lipgloss.Style
	Button   lipgloss.Style
	Focused  lipgloss.Style
	Item     lipgloss.Style
	Done     lipgloss.Style
	Input    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the palette used by the demo.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB")),
		Text:    lipgloss.NewStyle(),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#444444")).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Item:     lipgloss.NewStyle(),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Strikethrough(true),
		Input:    lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")),
	}
}

// PlainStyles returns styles without colors or padding.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Title: s, Heading: s, Text: s, Button: s, Focused: s,
		Item: s, Done: s, Input: s, Muted: s, Selected: s,
	}
}

// Renderer draws memhost trees.
type Renderer struct {
	Styles Styles
	// Focus is the node drawn with the Focused or Selected style.
	Focus *memhost.Node
	// Draft is shown inside input nodes.
	Draft string
}

// New creates a renderer using styles.
func New(styles Styles) *Renderer {
	return &Renderer{Styles: styles}
}

// Render draws the children of root, one block per line.
func (r *Renderer) Render(root *memhost.Node) string {
	if root == nil {
		return ""
	}
	return strings.Join(r.children(root, 0), "\n")
}

// Lines draws n and its subtree.
func (r *Renderer) Lines(n *memhost.Node) []string {
	return r.lines(n, 0)
}

func (r *Renderer) lines(n *memhost.Node, depth int) []string {
	pad := strings.Repeat(indent, depth)
	if n.IsText {
		return []string{pad + r.Styles.Text.Render(n.Value)}
	}
	if isInline(n) {
		return []string{pad + r.inline(n)}
	}
	next := depth
	switch n.Tag {
	case "ul", "ol", "div":
		next++
	}
	return r.children(n, next)
}

func (r *Renderer) children(n *memhost.Node, depth int) []string {
	var out []string
	var row []string
	flush := func() {
		if len(row) > 0 {
			out = append(out, strings.Repeat(indent, depth)+lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	for _, c := range n.Children {
		if !c.IsText && c.Tag == "button" && isInline(c) {
			if len(row) > 0 {
				row = append(row, " ")
			}
			row = append(row, r.inline(c))
			continue
		}
		flush()
		out = append(out, r.lines(c, depth)...)
	}
	flush()
	return out
}

func (r *Renderer) inline(n *memhost.Node) string {
	text := n.TextContent()
	focused := r.Focus != nil && r.Focus == n
	switch n.Tag {
	case "h1":
		return r.Styles.Title.Render(text)
	case "h2", "h3":
		return r.Styles.Heading.Render(text)
	case "button":
		if focused {
			return r.Styles.Focused.Render(text)
		}
		return r.Styles.Button.Render(text)
	case "input":
		return r.Styles.Input.Render("> " + r.Draft + "_")
	case "li":
		style := r.Styles.Item
		if class, _ := n.Attr("class"); class == "done" {
			style = r.Styles.Done
		}
		if focused {
			style = r.Styles.Selected
		}
		return "- " + style.Render(text)
	}
	if class, _ := n.Attr("class"); class == "summary" {
		return r.Styles.Muted.Render(text)
	}
	return r.Styles.Text.Render(text)
}

// isInline reports whether every child of n is text.
func isInline(n *memhost.Node) bool {
	for _, c := range n.Children {
		if !c.IsText {
			return false
		}
	}
	return true
}
