package navigation

import (
	"testing"

	dom "taskflow/internal/domain"

	"github.com/go-playground/assert/v2"
)

func TestPageOf(t *testing.T) {
	tests := []struct {
		path string
		want dom.Page
	}{
		{"", dom.PageTasks},
		{"/", dom.PageTasks},
		{"///", dom.PageTasks},
		{"/articles", dom.PageArticles},
		{"/Articles/", dom.PageArticles},
		{"/articles/123", dom.PageArticles},
		{"/news//", dom.PageNews},
		{"/profile?tab=security", dom.PageProfile},
		{"/settings", dom.PageTasks},
		{"profile", dom.PageProfile},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, PageOf(tt.path), tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Normalize(""), "/")
	assert.Equal(t, Normalize("/NEWS/"), "/news")
	assert.Equal(t, Normalize("/a//"), "/a")
}

func TestNavigatePushesOnlyOnPageChange(t *testing.T) {
	h := NewMemoryHistory("/")
	m := New(h)
	assert.Equal(t, m.State().Page, dom.PageTasks)

	m.OpenEdit("task_1")
	st := m.Navigate(dom.PageTasks)
	assert.Equal(t, h.Len(), 1)
	assert.Equal(t, st.Form, FormState{})

	st = m.Navigate(dom.PageArticles)
	assert.Equal(t, st.Page, dom.PageArticles)
	assert.Equal(t, st.Path, "/articles")
	assert.Equal(t, h.Len(), 2)
	assert.Equal(t, h.Current(), "/articles")

	m.OpenCreate()
	st = m.NavigatePath("/Articles/")
	assert.Equal(t, h.Len(), 2)
	assert.Equal(t, st.Form.Open, false)
}

func TestBackAndForwardRederiveFromHistory(t *testing.T) {
	h := NewMemoryHistory("/news")
	m := New(h)
	assert.Equal(t, m.State().Page, dom.PageNews)

	m.Navigate(dom.PageProfile)
	m.OpenCreate()

	st := m.Back()
	assert.Equal(t, st.Page, dom.PageNews)
	assert.Equal(t, st.Form.Open, false)

	st = m.Forward()
	assert.Equal(t, st.Page, dom.PageProfile)

	// Pushing after going back drops the forward entry.
	m.Back()
	m.Navigate(dom.PageArticles)
	assert.Equal(t, h.Forward(), false)
	assert.Equal(t, h.Len(), 2)
}

func TestFormState(t *testing.T) {
	m := New(NewMemoryHistory("/"))
	var seen []FormState
	m.Subscribe(func(s State) { seen = append(seen, s.Form) })

	m.OpenCreate()
	m.OpenEdit("task_9")
	m.CloseForm()

	assert.Equal(t, seen, []FormState{{Open: true}, {Open: true, EditingID: "task_9"}, {}})
}
