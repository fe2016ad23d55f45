// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package page

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/danielhkuo/payshoff/models"
)

// Element ids and classes the game page is built from
const (
	IDAddItem         = "add-new-item"
	IDSelectItem      = "select-item"
	IDAdminSkip       = "adm-skip"
	IDAdminToggle     = "adm-toggle"
	IDUsernameEdit    = "username-edit"
	IDCurrentUsername = "current-username"

	ClassTrash = "fa-trash"
	ClassGavel = "fa-gavel"
)

// Attribute names read by click bindings
const (
	AttrGameID = "gameid"
	AttrOption = "option"
	AttrName   = "name"
)

// ClickFunc handles a click. target is the element that received it.
type ClickFunc func(ctx context.Context, target *Element)

// Element is one node of a game page.
type Element struct {
	Tag     string
	ID      string
	Classes []string
	Text    string

	attrs map[string]string

	mu        sync.Mutex
	listeners []ClickFunc
}

// NewElement builds an element from its attributes. id and class are
// picked out of attrs.
func NewElement(tag string, attrs map[string]string) *Element {
	e := &Element{Tag: tag, attrs: make(map[string]string, len(attrs))}
	for k, v := range attrs {
		e.attrs[k] = v
	}
	e.ID = e.attrs["id"]
	e.Classes = strings.Fields(e.attrs["class"])
	return e
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// OnClick registers a click listener.
func (e *Element) OnClick(fn ClickFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Click delivers a click to every listener, in registration order, on the
// calling goroutine.
func (e *Element) Click(ctx context.Context) {
	e.mu.Lock()
	listeners := make([]ClickFunc, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, e)
	}
}

// Bound reports whether any listener is registered.
func (e *Element) Bound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners) > 0
}

// Page is the element model of one fetched game page.
type Page struct {
	URL string

	elements []*Element
	byID     map[string]*Element
}

// New builds a page from already constructed elements, in document order.
func New(url string, elements ...*Element) *Page {
	p := &Page{URL: url, byID: make(map[string]*Element)}
	for _, e := range elements {
		p.add(e)
	}
	return p
}

func (p *Page) add(e *Element) {
	p.elements = append(p.elements, e)
	if e.ID != "" {
		// first id wins, like getElementById
		if _, exists := p.byID[e.ID]; !exists {
			p.byID[e.ID] = e
		}
	}
}

// Parse reads an HTML document into a page.
func Parse(r io.Reader, url string) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	p := New(url)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrs := make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				if _, seen := attrs[a.Key]; !seen {
					attrs[a.Key] = a.Val
				}
			}
			e := NewElement(n.Data, attrs)
			e.Text = strings.TrimSpace(textContent(n))
			p.add(e)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return p, nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

// ByID returns the first element with the id, or nil.
func (p *Page) ByID(id string) *Element {
	return p.byID[id]
}

// ByClass returns every element carrying the class, in document order.
func (p *Page) ByClass(class string) []*Element {
	var out []*Element
	for _, e := range p.elements {
		if e.HasClass(class) {
			out = append(out, e)
		}
	}
	return out
}

func (p *Page) Elements() []*Element {
	return p.elements
}

// State summarizes the page from its elements.
func (p *Page) State() models.GameState {
	var state models.GameState

	for _, e := range p.elements {
		if gid, ok := e.Attr(AttrGameID); ok && gid != "" {
			state.GameID = gid
			break
		}
	}

	if el := p.ByID(IDCurrentUsername); el != nil {
		state.Username = el.Text
	}

	trash := p.ByClass(ClassTrash)
	state.OptionCount = len(trash)
	state.CanRemove = len(trash) > 0

	for _, e := range p.ByClass(ClassGavel) {
		if name, ok := e.Attr(AttrName); ok {
			state.Participants = append(state.Participants, name)
		}
	}

	state.CanAdd = p.ByID(IDAddItem) != nil
	state.CanSelect = p.ByID(IDSelectItem) != nil
	state.IsAdmin = p.ByID(IDAdminSkip) != nil || p.ByID(IDAdminToggle) != nil

	return state
}
