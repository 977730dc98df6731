package vdom

import "fmt"

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element node. Arguments can be nil, Attr, []Attr, *VNode,
// []*VNode, Component, string or fmt.Stringer; anything else is ignored.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
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
		case Component:
			node.Children = append(node.Children, &VNode{Kind: KindComponent, Comp: v})
		case string:
			node.Children = append(node.Children, Text(v))
		case fmt.Stringer:
			node.Children = append(node.Children, Text(v.String()))
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	v.Props[a.Key] = a.Value
}

// Document structure
func Html(args ...any) *VNode { return El("html", args...) }
func Head(args ...any) *VNode { return El("head", args...) }
func Body(args ...any) *VNode { return El("body", args...) }
func Title(args ...any) *VNode { return El("title", args...) }
func Meta(args ...any) *VNode { return El("meta", args...) }
func Script(args ...any) *VNode { return El("script", args...) }

// Sections
func Header(args ...any) *VNode { return El("header", args...) }
func Nav(args ...any) *VNode { return El("nav", args...) }
func Main(args ...any) *VNode { return El("main", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Aside(args ...any) *VNode { return El("aside", args...) }

// Content
func Div(args ...any) *VNode { return El("div", args...) }
func Span(args ...any) *VNode { return El("span", args...) }
func P(args ...any) *VNode { return El("p", args...) }
func H1(args ...any) *VNode { return El("h1", args...) }
func H2(args ...any) *VNode { return El("h2", args...) }
func A(args ...any) *VNode { return El("a", args...) }
func Ul(args ...any) *VNode { return El("ul", args...) }
func Li(args ...any) *VNode { return El("li", args...) }
func Button(args ...any) *VNode { return El("button", args...) }
func I(args ...any) *VNode { return El("i", args...) }
