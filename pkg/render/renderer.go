// Package render writes vdom trees as HTML.
package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/routetable/pkg/vdom"
)

// booleanAttrs render as bare attribute names when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"hidden":   true,
	"disabled": true,
	"checked":  true,
	"selected": true,
	"async":    true,
	"defer":    true,
}

// Renderer writes VNode trees as HTML. The zero value is ready to use.
type Renderer struct {
	// Doctype prepends "<!DOCTYPE html>" when the root is an <html> element.
	Doctype bool
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	if r.Doctype && node != nil && node.Kind == vdom.KindElement && node.Tag == "html" {
		if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
			return err
		}
	}
	return r.renderNode(w, node)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		return r.renderChildren(w, node)
	case vdom.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render())
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderChildren(w io.Writer, node *vdom.VNode) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode) error {
	if _, err := io.WriteString(w, "<"+node.Tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if vdom.IsVoidElement(node.Tag) {
		return nil
	}
	if err := r.renderChildren(w, node); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+node.Tag+">")
	return err
}

// renderAttributes renders attributes in sorted order for deterministic output.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		if strings.HasPrefix(key, "_") {
			continue
		}

		if booleanAttrs[key] {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := io.WriteString(w, " "+key); err != nil {
						return err
					}
				}
				continue
			}
		}

		s := attrToString(value)
		if s == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
