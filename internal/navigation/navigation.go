// Package navigation maps URL paths to pages and tracks the per-page form
// state that every page change resets.
package navigation

import (
	"strings"
	"sync"

	dom "taskflow/internal/domain"
)

// DefaultPage is shown for any path that matches no other page.
const DefaultPage = dom.PageTasks

var pagePaths = map[dom.Page]string{
	dom.PageTasks:    "/",
	dom.PageArticles: "/articles",
	dom.PageNews:     "/news",
	dom.PageProfile:  "/profile",
}

// PathOf returns the canonical path of p.
func PathOf(p dom.Page) string {
	if path, ok := pagePaths[p]; ok {
		return path
	}
	return pagePaths[DefaultPage]
}

// Normalize lowercases path and strips trailing slashes. Empty becomes "/".
func Normalize(path string) string {
	path = strings.ToLower(strings.TrimSpace(path))
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return path
}

// PageOf returns the page whose path is the longest prefix of path.
func PageOf(path string) dom.Page {
	path = Normalize(path)
	best, bestLen := DefaultPage, 0
	for page, prefix := range pagePaths {
		if prefix == "/" {
			continue
		}
		if strings.HasPrefix(path, prefix) && len(prefix) > bestLen {
			best, bestLen = page, len(prefix)
		}
	}
	return best
}

// FormState is the transient create/edit dialog state of the current page.
type FormState struct {
	Open bool `json:"open"`
	// EditingID is the entity being edited; empty while creating.
	EditingID string `json:"editing_id,omitempty"`
}

type State struct {
	Page dom.Page  `json:"page"`
	Path string    `json:"path"`
	Form FormState `json:"form"`
}

type Listener func(State)

// Machine is the navigation state machine of one workspace.
type Machine struct {
	mu        sync.Mutex
	history   History
	state     State
	listeners map[int]Listener
	nextID    int
}

// New derives the initial page from the history's current path.
func New(h History) *Machine {
	path := Normalize(h.Current())
	return &Machine{
		history:   h,
		state:     State{Page: PageOf(path), Path: path},
		listeners: make(map[int]Listener),
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Subscribe(l Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Navigate moves to page. History grows only when the page changes; the
// form state is reset either way.
func (m *Machine) Navigate(page dom.Page) State {
	if !page.Valid() {
		page = DefaultPage
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if page != m.state.Page {
		path := PathOf(page)
		m.history.Push(path)
		m.state.Page, m.state.Path = page, path
	}
	m.state.Form = FormState{}
	m.publish()
	return m.state
}

// NavigatePath navigates to the page that path resolves to.
func (m *Machine) NavigatePath(path string) State {
	return m.Navigate(PageOf(path))
}

// PopState re-derives the page from the history after a back or forward
// move and resets the form state.
func (m *Machine) PopState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := Normalize(m.history.Current())
	m.state = State{Page: PageOf(path), Path: path}
	m.publish()
	return m.state
}

// Back moves the history back one entry, if possible, and pops state.
func (m *Machine) Back() State {
	m.history.Back()
	return m.PopState()
}

// Forward moves the history forward one entry, if possible, and pops state.
func (m *Machine) Forward() State {
	m.history.Forward()
	return m.PopState()
}

// OpenCreate opens the create dialog of the current page.
func (m *Machine) OpenCreate() State {
	return m.setForm(FormState{Open: true})
}

// OpenEdit opens the edit dialog for id.
func (m *Machine) OpenEdit(id string) State {
	return m.setForm(FormState{Open: true, EditingID: id})
}

// CloseForm closes any open dialog and clears the edit target.
func (m *Machine) CloseForm() State {
	return m.setForm(FormState{})
}

func (m *Machine) setForm(f FormState) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Form = f
	m.publish()
	return m.state
}

func (m *Machine) publish() {
	for _, l := range m.listeners {
		l(m.state)
	}
}
