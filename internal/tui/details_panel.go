package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/service"
)

func (m *InvoicesModel) openDetails(id int64) tea.Cmd {
	m.state.detailsID = id
	m.state.detailsOpen = true
	m.itemCursor = 0
	m.detailsMsg.Clear()
	m.setFocus(focusDetails)
	return m.loadDetails(id)
}

func (m *InvoicesModel) closeDetails() {
	m.state.detailsOpen = false
	m.detailsMsg.Clear()
	m.setFocus(focusList)
}

func (m *InvoicesModel) loadDetails(id int64) tea.Cmd {
	m.details = nil
	m.detailsErr = ""
	m.detailsLoading = true
	m.pdfBtn.SetDisabled(true)
	m.saveBtn.SetDisabled(true)

	svc := m.svc
	return func() tea.Msg {
		d, err := svc.InvoiceDetails(context.Background(), id)
		return detailsLoadedMsg{invoiceID: id, details: d, err: err}
	}
}

func (m *InvoicesModel) updateDetailsMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailsLoadedMsg:
		// a response for an invoice the panel no longer shows
		if msg.invoiceID != m.state.detailsID {
			return nil
		}
		m.detailsLoading = false
		if msg.err != nil {
			m.detailsErr = service.LoadFailedMessage(service.MsgLoadDetailFailed, msg.err)
			return nil
		}
		m.details = msg.details
		if m.itemCursor >= len(m.details.Items) {
			m.itemCursor = max(0, len(m.details.Items)-1)
		}
		canExport := m.details.CanExportPDF()
		m.pdfBtn.SetDisabled(!canExport)
		m.saveBtn.SetDisabled(!canExport)
		return nil

	case itemDeletedMsg:
		if msg.err != nil {
			m.detailsMsg.Show(service.DeleteFailedMessage(msg.err), kindError)
			return nil
		}
		if m.state.detailsOpen && m.state.detailsID == msg.invoiceID {
			return m.loadDetails(msg.invoiceID)
		}
		return nil

	case pdfDoneMsg:
		switch {
		case msg.err != nil:
			m.detailsMsg.Show(msg.err.Error(), kindError)
		case msg.path != "":
			m.detailsMsg.Show("Saved "+msg.path, kindSuccess)
		default:
			m.detailsMsg.Show("Opened in browser", kindSuccess)
		}
		return nil
	}
	return nil
}

func (m *InvoicesModel) updateDetails(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.closeDetails()
		return nil

	case key.Matches(msg, DefaultKeyMap.Up):
		if m.itemCursor > 0 {
			m.itemCursor--
		}

	case key.Matches(msg, DefaultKeyMap.Down):
		if m.details != nil && m.itemCursor < len(m.details.Items)-1 {
			m.itemCursor++
		}

	case key.Matches(msg, DefaultKeyMap.OpenPDF):
		if m.pdfBtn.Disabled() {
			return nil
		}
		return m.openPDF(m.state.detailsID)

	case key.Matches(msg, DefaultKeyMap.SavePDF):
		if m.saveBtn.Disabled() {
			return nil
		}
		return m.savePDF(m.state.detailsID)

	case key.Matches(msg, DefaultKeyMap.DeleteItem):
		if m.details == nil || len(m.details.Items) == 0 {
			return nil
		}
		m.askDeleteItem(m.details.Items[m.itemCursor])
	}
	return nil
}

func (m *InvoicesModel) askDeleteItem(it domain.InvoiceItem) {
	svc := m.svc
	invoiceID := m.state.detailsID
	m.confirm = &confirmPrompt{
		text: fmt.Sprintf("Delete item %q? (y/N)", domain.SanitizeTerminal(it.ItemName)),
		onYes: func() tea.Cmd {
			return func() tea.Msg {
				err := svc.DeleteItem(context.Background(), it.ID)
				return itemDeletedMsg{invoiceID: invoiceID, err: err}
			}
		},
	}
}

func (m *InvoicesModel) openPDF(id int64) tea.Cmd {
	url := m.svc.PDFURL(id)
	open := m.opts.OpenURL
	return func() tea.Msg {
		if open == nil {
			return pdfDoneMsg{err: fmt.Errorf("no browser configured, PDF is at %s", url)}
		}
		if err := open(url); err != nil {
			return pdfDoneMsg{err: fmt.Errorf("failed to open %s: %w", url, err)}
		}
		return pdfDoneMsg{}
	}
}

func (m *InvoicesModel) savePDF(id int64) tea.Cmd {
	svc := m.svc
	path := filepath.Join(m.opts.PDFDir, fmt.Sprintf("invoice-%d.pdf", id))
	return func() tea.Msg {
		if err := savePDFFile(context.Background(), svc, id, path); err != nil {
			return pdfDoneMsg{err: err}
		}
		return pdfDoneMsg{path: path}
	}
}

// savePDFFile downloads the invoice PDF to path, removing the file on failure
func savePDFFile(ctx context.Context, svc service.InvoiceService, id int64, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := svc.DownloadPDF(ctx, id, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (m *InvoicesModel) viewDetails() string {
	st := *m.st
	var b strings.Builder

	b.WriteString(st.title.Render(fmt.Sprintf("Invoice #%d", m.state.detailsID)) + "\n\n")

	switch {
	case m.detailsLoading:
		b.WriteString("Loading...\n")
	case m.detailsErr != "":
		b.WriteString(st.error.Render(m.detailsErr) + "\n")
	case m.details == nil || len(m.details.Items) == 0:
		b.WriteString(st.subtitle.Render(service.MsgNoItems) + "\n")
	default:
		b.WriteString(st.subtitle.Render(fmt.Sprintf(
			"  %-24s %5s %10s %7s %10s %10s",
			"Item", "Qty", "Unit", "Tax %", "Discount %", "Total",
		)) + "\n")
		for i, it := range m.details.Items {
			line := fmt.Sprintf("  %-24s %5d %10s %7s %10s %10s",
				truncateStr(domain.SanitizeTerminal(it.ItemName), 24),
				it.Quantity,
				it.UnitPrice.StringFixed(2),
				it.Tax.StringFixed(2),
				it.Discount.StringFixed(2),
				it.Total.StringFixed(2),
			)
			if i == m.itemCursor {
				line = st.focused.Render(">" + line[1:])
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + st.total.Render(fmt.Sprintf("%68s", "Grand Total: "+m.details.GrandTotal.StringFixed(2))) + "\n")
	}

	b.WriteString("\n" + m.pdfBtn.View(st) + " " + m.saveBtn.View(st))
	if !m.detailsMsg.Hidden() {
		b.WriteString("\n\n" + m.detailsMsg.View(st))
	}
	if m.confirm != nil {
		b.WriteString("\n\n" + st.total.Render(m.confirm.text))
	}
	b.WriteString("\n\n" + st.help.Render("j/k: select item  x: delete item  p: open PDF  s: save PDF  esc/click outside: close"))

	return st.modal.Render(b.String())
}
