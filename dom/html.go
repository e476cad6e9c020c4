package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML 读取 HTML 文档，把 <body> 的内容转换为节点树，并返回所有 <style> 元素的文本。
// <head> 中除样式外的内容、脚本与注释都会被忽略。
func ParseHTML(r io.Reader) (*Tree, []string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("解析 HTML 失败: %w", err)
	}

	t := NewTree()
	var sheets []string
	var body *html.Node

	var scan func(n *html.Node)
	scan = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Style:
				sheets = append(sheets, textContent(n))
				return
			case atom.Body:
				if body == nil {
					body = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			scan(c)
		}
	}
	scan(doc)

	if body == nil {
		return t, sheets, nil
	}
	for _, attr := range body.Attr {
		if err := t.SetAttribute(RootID, attr.Key, attr.Val); err != nil {
			return nil, nil, err
		}
	}
	if err := convertChildren(t, RootID, body); err != nil {
		return nil, nil, err
	}
	return t, sheets, nil
}

func convertChildren(t *Tree, parent NodeID, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		var id NodeID
		switch c.Type {
		case html.TextNode:
			id = t.CreateText(c.Data)
		case html.ElementNode:
			if c.DataAtom == atom.Script || c.DataAtom == atom.Style || c.DataAtom == atom.Template {
				continue
			}
			id = t.CreateElement(c.Data)
			for _, attr := range c.Attr {
				if err := t.SetAttribute(id, attr.Key, attr.Val); err != nil {
					return err
				}
			}
		default:
			continue
		}
		if err := t.AppendChild(parent, id); err != nil {
			return err
		}
		if c.Type == html.ElementNode {
			if err := convertChildren(t, id, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
