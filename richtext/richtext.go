/*
Package richtext models the structured body content of guide pages.

A document is a tree of tagged nodes: a single document root, container
nodes (paragraphs, headings, lists, list items, links) and text leaves
carrying the literal content plus formatting marks. The depth-first
sequence of text leaves defines a stable slot order that extraction and
rebuild both follow, so translated text can be spliced back by position.
*/
package richtext

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a node variant. The set is closed; VisitTexts rejects
// anything outside it rather than silently skipping it.
type Kind string

const (
	KindDocument  Kind = "document"
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindList      Kind = "list"
	KindListItem  Kind = "list_item"
	KindLink      Kind = "link"
	KindText      Kind = "text"
)

// Node is one node of a rich text document. Which fields are meaningful
// depends on Kind: Text/Bold/Italic for text leaves, Level for headings,
// Ordered for lists, Href for links, Children for every container and
// the document root.
type Node struct {
	Kind     Kind    `json:"kind"`
	Text     string  `json:"text,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
	Level    int     `json:"level,omitempty"`
	Ordered  bool    `json:"ordered,omitempty"`
	Href     string  `json:"href,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// VisitTexts applies fn to the text of every leaf in depth-first order,
// replacing each leaf's text with fn's return value. Both extraction and
// rebuild are expressed through this one traversal so they cannot
// disagree about slot order.
func (n *Node) VisitTexts(fn func(string) string) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindText:
		n.Text = fn(n.Text)
		return nil
	case KindDocument, KindParagraph, KindHeading, KindList, KindListItem, KindLink:
		for _, c := range n.Children {
			if err := c.VisitTexts(fn); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("richtext: unknown node kind '%v'", n.Kind)
	}
}

// ExtractTexts collects every leaf's text in depth-first order.
func ExtractTexts(n *Node) (texts []string, err error) {
	err = n.VisitTexts(func(s string) string {
		texts = append(texts, s)
		return s
	})
	return texts, err
}

// Clone returns a deep copy of the node tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	cp := *n
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// CountLeaves returns the number of text leaves in the tree.
func (n *Node) CountLeaves() (count int, err error) {
	err = n.VisitTexts(func(s string) string {
		count++
		return s
	})
	return count, err
}

// Parse decodes a document from its stored JSON form.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("richtext: %w", err)
	}
	if n.Kind == "" {
		return nil, fmt.Errorf("richtext: document has no kind")
	}
	return &n, nil
}

// Encode serialises a document to its stored JSON form.
func Encode(n *Node) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("richtext: %w", err)
	}
	return data, nil
}
