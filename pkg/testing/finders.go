package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/fiber/pkg/host/memhost"
)

// Finder locates nodes in the output tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *memhost.Node) []*memhost.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memhost.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memhost.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memhost.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memhost.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*memhost.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type predicateFinder struct {
	fn   func(*memhost.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag returns a finder that matches element nodes with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *memhost.Node) bool { return !n.IsText && n.Tag == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText returns a finder that matches text nodes with exact content.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *memhost.Node) bool { return n.IsText && n.Value == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches text nodes containing
// substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(n *memhost.Node) bool { return n.IsText && strings.Contains(n.Value, substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByAttr returns a finder that matches nodes whose attribute name equals
// value.
func ByAttr(name string, value any) Finder {
	return &predicateFinder{
		fn: func(n *memhost.Node) bool {
			v, ok := n.Attr(name)
			if !ok {
				return false
			}
			// Guard against non-comparable types (slices, maps, funcs).
			if v == nil || value == nil || !reflect.TypeOf(v).Comparable() || !reflect.TypeOf(value).Comparable() {
				return reflect.DeepEqual(v, value)
			}
			return v == value
		},
		desc: fmt.Sprintf("ByAttr(%s=%v)", name, value),
	}
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*memhost.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	var results []*memhost.Node
	seen := make(map[*memhost.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' that are ancestors of nodes
// matching 'of'. Results keep the traversal order of 'matching'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	above := make(map[*memhost.Node]bool)
	for _, n := range f.of.Evaluate(root) {
		for p := n.Parent; p != nil; p = p.Parent {
			above[p] = true
		}
	}
	if len(above) == 0 {
		return nil
	}
	var results []*memhost.Node
	for _, candidate := range f.matching.Evaluate(root) {
		if above[candidate] {
			results = append(results, candidate)
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching'
// that are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root *memhost.Node, predicate func(*memhost.Node) bool) []*memhost.Node {
	var results []*memhost.Node
	var walk func(n *memhost.Node)
	walk = func(n *memhost.Node) {
		if predicate(n) {
			results = append(results, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return results
}
