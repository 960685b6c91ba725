package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/service"
)

// edit form field indices
const (
	editFieldCustomer = iota
	editFieldDate
)

// openEdit opens the modal pre-filled from the row, without a re-fetch
func (m *InvoicesModel) openEdit(inv domain.Invoice) tea.Cmd {
	target := inv
	m.state.editing = &target
	m.editSeq++

	m.editForm = newForm(
		fieldSpec{label: "Customer:", charLimit: 100, width: 30, value: inv.Customer},
		fieldSpec{label: "Date:", placeholder: "yyyy-mm-dd", charLimit: 10, width: 12, value: domain.FormatDateShort(inv.Date)},
	)
	m.modalMsg.Clear()
	m.updateBtn.SetDisabled(false)
	return m.setFocus(focusEdit)
}

func (m *InvoicesModel) closeEdit() tea.Cmd {
	m.state.editing = nil
	m.modalMsg.Clear()
	return m.setFocus(focusList)
}

func (m *InvoicesModel) submitUpdate() tea.Cmd {
	m.modalMsg.Clear()
	if m.updateBtn.Disabled() {
		return nil
	}
	if m.state.editing == nil || m.state.editing.ID == 0 {
		m.modalMsg.Show(service.MsgInvalidInvoice, kindError)
		return nil
	}

	customer := m.editForm.Value(editFieldCustomer)
	date := m.editForm.Value(editFieldDate)
	if _, err := domain.NewInvoiceInput(customer, date, service.MsgMissingEdit); err != nil {
		m.modalMsg.Show(err.Error(), kindError)
		return nil
	}

	m.updateBtn.SetDisabled(true)
	svc := m.svc
	id := m.state.editing.ID
	seq := m.editSeq
	return func() tea.Msg {
		_, err := svc.UpdateInvoice(context.Background(), id, customer, date)
		return invoiceUpdatedMsg{seq: seq, err: err}
	}
}

func (m *InvoicesModel) handleUpdated(msg invoiceUpdatedMsg) tea.Cmd {
	m.updateBtn.SetDisabled(false)
	if msg.seq != m.editSeq || m.state.editing == nil {
		// modal was closed or reopened meanwhile; the list still needs the change
		if msg.err == nil {
			return m.reload()
		}
		return nil
	}

	if msg.err != nil {
		m.modalMsg.Show(api.Message(msg.err, service.MsgUpdateFailed), kindError)
		return nil
	}

	m.modalMsg.Show(service.MsgInvoiceUpdated, kindSuccess)
	return tea.Batch(
		m.reload(),
		tick(m.opts.EditCloseDelay, closeEditMsg{seq: msg.seq}),
	)
}

func (m *InvoicesModel) updateEdit(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, DefaultKeyMap.Back) {
		return m.closeEdit()
	}
	cmd, submit := m.editForm.Update(msg)
	if submit {
		return m.submitUpdate()
	}
	return cmd
}

func (m *InvoicesModel) viewEdit() string {
	st := *m.st
	var b strings.Builder

	title := "Edit invoice"
	if m.state.editing != nil {
		title = fmt.Sprintf("Edit invoice #%d", m.state.editing.ID)
	}
	b.WriteString(st.title.Render(title) + "\n\n")
	b.WriteString(m.editForm.View(st))
	b.WriteString("\n" + m.updateBtn.View(st))
	if !m.modalMsg.Hidden() {
		b.WriteString("\n\n" + m.modalMsg.View(st))
	}
	b.WriteString("\n\n" + st.help.Render("tab: next field  ctrl+s: update  esc/click outside: close"))

	return st.modal.Render(b.String())
}
