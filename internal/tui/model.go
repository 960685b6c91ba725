package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/andy/invoicedesk/internal/app"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/service"
)

// viewState is all UI state that outlives a single message. Nothing in it is persisted.
type viewState struct {
	editing     *domain.Invoice // nil while the edit modal is closed
	detailsID   int64
	detailsOpen bool
	dark        bool
}

// Options tune the TUI
type Options struct {
	Dark           bool
	EditCloseDelay time.Duration
	PDFDir         string
	OpenURL        func(url string) error
	ServerURL      string
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, the global quit key is suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// Model is the root Bubble Tea model
type Model struct {
	state *viewState
	st    *styles
	opts  Options

	width  int
	height int

	invoices *InvoicesModel
}

// New creates a new root model
func New(svc service.InvoiceService, opts Options) Model {
	if opts.EditCloseDelay <= 0 {
		opts.EditCloseDelay = 500 * time.Millisecond
	}
	state := &viewState{dark: opts.Dark}
	st := newStyles(state.dark)

	return Model{
		state:    state,
		st:       &st,
		opts:     opts,
		invoices: NewInvoicesModel(svc, state, &st, opts),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.invoices.Init()
}

func (m *Model) toggleTheme() {
	m.state.dark = !m.state.dark
	*m.st = newStyles(m.state.dark)
	m.invoices.restyle()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.Theme):
			m.toggleTheme()
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Quit) && !m.invoices.IsCapturingInput():
			return m, tea.Quit
		}
	}

	_, cmd := m.invoices.Update(msg)
	return m, cmd
}

// View implements tea.Model - renders header + page + footer, or the open modal
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if overlay, ok := m.invoices.Overlay(); ok {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}

	st := *m.st

	title := "invoicedesk"
	if m.opts.ServerURL != "" {
		title += " - " + m.opts.ServerURL
	}
	header := st.header.Render(title) + "  " + st.subtitle.Render("[ctrl+t] "+st.themeLabel())
	footer := st.footer.Render("[r] Load  [n] New  [a] Add item  [ctrl+t] Theme  [q] Quit")

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	divider := lipgloss.NewStyle().Foreground(st.border).Render(strings.Repeat("─", innerWidth-2))

	body := fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s", header, divider, m.invoices.View(), divider, footer)

	frame := st.appBorder.Width(innerWidth)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	opts := Options{
		Dark:           a.Config.UI.Dark,
		EditCloseDelay: a.Config.UI.EditCloseDelay,
		PDFDir:         a.Config.PDF.OutputDir,
		OpenURL:        browser.OpenURL,
		ServerURL:      a.Config.Server.BaseURL,
	}
	// the alt screen owns the terminal
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	p := tea.NewProgram(New(a.InvoiceService, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
