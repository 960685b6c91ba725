package tui

import "fmt"

type messageKind string

const (
	kindInfo    messageKind = ""
	kindSuccess messageKind = "success"
	kindError   messageKind = "error"
)

// statusMessage is an inline message area. It is hidden while its text is empty.
type statusMessage struct {
	Text string
	Kind messageKind
}

func (m *statusMessage) Show(text string, kind messageKind) {
	m.Text = text
	m.Kind = kind
}

func (m *statusMessage) Clear() {
	m.Show("", kindInfo)
}

func (m statusMessage) Hidden() bool {
	return m.Text == ""
}

func (m statusMessage) View(st styles) string {
	if m.Hidden() {
		return ""
	}
	switch m.Kind {
	case kindSuccess:
		return st.success.Render(m.Text)
	case kindError:
		return st.error.Render(m.Text)
	default:
		return st.info.Render(m.Text)
	}
}

// control is an action bound to a key. A disabled control renders dimmed and ignores its key.
type control struct {
	Label string
	Key   string

	disabled     bool
	ariaDisabled string // mirrors disabled as "true"/"false"
}

func newControl(label, key string) control {
	return control{Label: label, Key: key, ariaDisabled: "false"}
}

func (c *control) SetDisabled(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.ariaDisabled = "true"
	} else {
		c.ariaDisabled = "false"
	}
}

func (c control) Disabled() bool {
	return c.disabled
}

func (c control) View(st styles) string {
	text := fmt.Sprintf("[%s] %s", c.Key, c.Label)
	if c.disabled {
		return st.disabled.Render(text)
	}
	return st.control.Render(text)
}
