package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// The content must already be safe HTML.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, child := range children {
		switch v := child.(type) {
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &VNode{Kind: KindComponent, Comp: v})
		}
	}
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// Range maps items to nodes, dropping nils.
func Range[T any](items []T, fn func(int, T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(i, item); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Attribute helpers

func Class(class string) Attr { return Attr{Key: "class", Value: class} }
func ID(id string) Attr { return Attr{Key: "id", Value: id} }
func Href(href string) Attr { return Attr{Key: "href", Value: href} }
func Key(key string) Attr { return Attr{Key: "key", Value: key} }
func Charset(charset string) Attr { return Attr{Key: "charset", Value: charset} }
func Data(name, value string) Attr { return Attr{Key: "data-" + name, Value: value} }
func Role(role string) Attr { return Attr{Key: "role", Value: role} }
func AriaCurrent(value string) Attr { return Attr{Key: "aria-current", Value: value} }
func Hidden(hidden bool) Attr { return Attr{Key: "hidden", Value: hidden} }
func Src(src string) Attr { return Attr{Key: "src", Value: src} }
