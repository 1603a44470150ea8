package seo

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RootID is the id of the element the SPA mounts into.
const RootID = "root"

// ErrNoRoot is returned when fallback markup is given but the template has no
// element with id RootID to mount it in.
var ErrNoRoot = errors.New("template has no root element")

// Inject returns a copy of the SPA shell with the head tags, one JSON-LD
// script and the fallback markup applied. Existing tags are updated in place
// so repeated injection never duplicates them. Empty jsonLD removes any
// structured data block; empty fallback leaves the root element untouched.
func Inject(template []byte, h Head, jsonLD []byte, fallback string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	// html.Parse always synthesizes <head>.
	head := find(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == atom.Head })

	setTitle(head, h.Title)
	setMeta(head, "name", "description", h.Description)
	if h.NoIndex {
		setMeta(head, "name", "robots", "noindex, follow")
	} else {
		removeAll(head, func(n *html.Node) bool { return isElem(n, atom.Meta) && attr(n, "name") == "robots" })
	}
	setLink(head, "canonical", h.Canonical)

	setMeta(head, "property", "og:title", h.Title)
	setMeta(head, "property", "og:description", h.Description)
	setMeta(head, "property", "og:url", h.Canonical)
	setMeta(head, "property", "og:type", h.Type)
	setMeta(head, "property", "og:site_name", h.SiteName)
	setMeta(head, "property", "og:image", h.Image)

	card := "summary"
	if h.Image != "" {
		card = "summary_large_image"
	}
	setMeta(head, "name", "twitter:card", card)
	setMeta(head, "name", "twitter:title", h.Title)
	setMeta(head, "name", "twitter:description", h.Description)
	setMeta(head, "name", "twitter:image", h.Image)

	setJSONLD(head, jsonLD)

	if fallback != "" {
		if err := setFallback(doc, fallback); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

func setTitle(head *html.Node, title string) {
	t := find(head, func(n *html.Node) bool { return isElem(n, atom.Title) })
	if t == nil {
		t = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.InsertBefore(t, head.FirstChild)
	}
	for t.FirstChild != nil {
		t.RemoveChild(t.FirstChild)
	}
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// setMeta upserts <meta {keyAttr}="{key}" content="{content}">. An empty
// content removes the tag.
func setMeta(head *html.Node, keyAttr, key, content string) {
	match := func(n *html.Node) bool { return isElem(n, atom.Meta) && attr(n, keyAttr) == key }
	if content == "" {
		removeAll(head, match)
		return
	}
	if m := find(head, match); m != nil {
		setAttr(m, "content", content)
		return
	}
	head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "meta",
		DataAtom: atom.Meta,
		Attr:     []html.Attribute{{Key: keyAttr, Val: key}, {Key: "content", Val: content}},
	})
}

func setLink(head *html.Node, rel, href string) {
	match := func(n *html.Node) bool { return isElem(n, atom.Link) && attr(n, "rel") == rel }
	if href == "" {
		removeAll(head, match)
		return
	}
	if l := find(head, match); l != nil {
		setAttr(l, "href", href)
		return
	}
	head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr:     []html.Attribute{{Key: "rel", Val: rel}, {Key: "href", Val: href}},
	})
}

func setJSONLD(head *html.Node, jsonLD []byte) {
	removeAll(head, func(n *html.Node) bool {
		return isElem(n, atom.Script) && strings.EqualFold(attr(n, "type"), "application/ld+json")
	})
	if len(jsonLD) == 0 {
		return
	}
	s := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "type", Val: "application/ld+json"}},
	}
	s.AppendChild(&html.Node{Type: html.TextNode, Data: string(jsonLD)})
	head.AppendChild(s)
}

func setFallback(doc *html.Node, markup string) error {
	root := find(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "id") == RootID })
	if root == nil {
		return ErrNoRoot
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), root)
	if err != nil {
		return fmt.Errorf("parse fallback markup: %w", err)
	}
	for root.FirstChild != nil {
		root.RemoveChild(root.FirstChild)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return nil
}

func isElem(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// find returns the first node in document order matching fn.
func find(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if got := find(c, fn); got != nil {
			return got
		}
	}
	return nil
}

// removeAll detaches every direct child of parent matching fn.
func removeAll(parent *html.Node, fn func(*html.Node) bool) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if fn(c) {
			parent.RemoveChild(c)
		}
		c = next
	}
}
