package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldSpec struct {
	label       string
	placeholder string
	charLimit   int
	width       int
	value       string
}

// form is a column of text inputs with one focused field
type form struct {
	labels     []string
	fields     []textinput.Model
	fieldFocus int
	active     bool
}

func newForm(specs ...fieldSpec) form {
	f := form{
		labels: make([]string, len(specs)),
		fields: make([]textinput.Model, len(specs)),
	}
	for i, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = s.charLimit
		ti.Width = s.width
		ti.SetValue(s.value)
		f.labels[i] = s.label
		f.fields[i] = ti
	}
	return f
}

// Focus and Blur are no-ops on a form that has not been built yet
func (f *form) Focus() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.active = true
	return f.fields[f.fieldFocus].Focus()
}

func (f *form) Blur() {
	f.active = false
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.fieldFocus].Blur()
}

func (f *form) focusField(i int) tea.Cmd {
	f.fields[f.fieldFocus].Blur()
	f.fieldFocus = (i + len(f.fields)) % len(f.fields)
	return f.fields[f.fieldFocus].Focus()
}

func (f *form) Value(i int) string {
	return f.fields[i].Value()
}

func (f *form) SetValue(i int, v string) {
	f.fields[i].SetValue(v)
}

// Reset empties every field and moves focus to the first one
func (f *form) Reset() {
	for i := range f.fields {
		f.fields[i].SetValue("")
	}
	f.focusField(0)
	if !f.active {
		f.fields[0].Blur()
	}
}

// Update handles field navigation. submit is true when the user asked to save:
// ctrl+s anywhere, or enter on the last field.
func (f *form) Update(msg tea.Msg) (cmd tea.Cmd, submit bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, DefaultKeyMap.Submit):
			return nil, true
		case key.Matches(msg, DefaultKeyMap.NextField):
			return f.focusField(f.fieldFocus + 1), false
		case key.Matches(msg, DefaultKeyMap.PrevField):
			return f.focusField(f.fieldFocus - 1), false
		case msg.Type == tea.KeyEnter:
			if f.fieldFocus == len(f.fields)-1 {
				return nil, true
			}
			return f.focusField(f.fieldFocus + 1), false
		}
	}

	f.fields[f.fieldFocus], cmd = f.fields[f.fieldFocus].Update(msg)
	return cmd, false
}

func (f form) View(st styles) string {
	var b strings.Builder
	for i, label := range f.labels {
		indicator := "  "
		labelStyle := st.label
		if f.active && i == f.fieldFocus {
			indicator = "> "
			labelStyle = st.focused
		}
		fmt.Fprintf(&b, "%s%s %s\n", indicator, labelStyle.Render(label), f.fields[i].View())
	}
	return b.String()
}
