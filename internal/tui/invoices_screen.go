package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/service"
)

type focusArea int

const (
	focusList focusArea = iota
	focusCreate
	focusItem
	focusEdit
	focusDetails
)

// create form field indices
const (
	createFieldCustomer = iota
	createFieldDate
)

// item form field indices
const (
	itemFieldInvoice = iota
	itemFieldName
	itemFieldPrice
	itemFieldQty
	itemFieldTax
	itemFieldDiscount
)

// confirmPrompt asks a yes/no question before a destructive action
type confirmPrompt struct {
	text  string
	onYes func() tea.Cmd
}

// InvoicesModel is the single page of the client: the invoice table, the
// create and item forms, the edit modal and the details panel.
type InvoicesModel struct {
	svc   service.InvoiceService
	state *viewState
	st    *styles
	opts  Options

	width  int
	height int
	focus  focusArea

	// List
	table        table.Model
	invoices     []domain.Invoice
	loading      bool
	reloadQueued bool
	autofillID   int64 // created invoice id, applied after the next load
	listMsg      statusMessage
	loadBtn      control
	clearBtn     control

	// Create form
	createForm form
	formMsg    statusMessage
	createBtn  control

	// Item form
	itemForm   form
	itemMsg    statusMessage
	addItemBtn control

	// Edit modal
	editForm  form
	modalMsg  statusMessage
	updateBtn control
	editSeq   int

	// Details panel
	details        *domain.InvoiceDetails
	detailsLoading bool
	detailsErr     string
	detailsMsg     statusMessage
	itemCursor     int
	pdfBtn         control
	saveBtn        control

	confirm *confirmPrompt
}

// NewInvoicesModel creates the invoices screen
func NewInvoicesModel(svc service.InvoiceService, state *viewState, st *styles, opts Options) *InvoicesModel {
	km := table.DefaultKeyMap()
	// d deletes the selected invoice
	km.HalfPageDown.SetKeys("ctrl+d")

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Customer", Width: 28},
			{Title: "Date", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(km),
		table.WithStyles(st.table),
	)

	m := &InvoicesModel{
		svc:   svc,
		state: state,
		st:    st,
		opts:  opts,
		table: t,

		loadBtn:    newControl("Load", "r"),
		clearBtn:   newControl("Clear", "x"),
		createBtn:  newControl("Create", "ctrl+s"),
		addItemBtn: newControl("Add item", "ctrl+s"),
		updateBtn:  newControl("Update", "ctrl+s"),
		pdfBtn:     newControl("Open PDF", "p"),
		saveBtn:    newControl("Save PDF", "s"),

		createForm: newForm(
			fieldSpec{label: "Customer:", placeholder: "Customer name", charLimit: 100, width: 30},
			fieldSpec{label: "Date:", placeholder: "yyyy-mm-dd", charLimit: 10, width: 12},
		),
		itemForm: newForm(
			fieldSpec{label: "Invoice ID:", placeholder: "7", charLimit: 12, width: 8},
			fieldSpec{label: "Item:", placeholder: "Item name", charLimit: 100, width: 30},
			fieldSpec{label: "Unit price:", placeholder: "0.00", charLimit: 14, width: 12},
			fieldSpec{label: "Qty:", charLimit: 8, width: 6, value: domain.DefaultItemQuantity},
			fieldSpec{label: "Tax %:", charLimit: 8, width: 6, value: domain.DefaultItemTax},
			fieldSpec{label: "Discount %:", charLimit: 8, width: 6, value: domain.DefaultItemDiscount},
		),
	}
	m.pdfBtn.SetDisabled(true)
	m.saveBtn.SetDisabled(true)
	return m
}

// IsCapturingInput returns true while a form, modal or prompt owns the keyboard
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.confirm != nil || m.focus == focusCreate || m.focus == focusItem || m.focus == focusEdit
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.reload()
}

// restyle applies a new theme to the table
func (m *InvoicesModel) restyle() {
	m.table.SetStyles(m.st.table)
}

// reload starts a list load. While one is in flight, further requests are
// folded into a single follow-up load.
func (m *InvoicesModel) reload() tea.Cmd {
	if m.loading {
		m.reloadQueued = true
		return nil
	}

	m.loading = true
	m.invoices = nil
	m.table.SetRows(nil)
	m.listMsg.Clear()
	m.loadBtn.SetDisabled(true)

	svc := m.svc
	return func() tea.Msg {
		invoices, err := svc.ListInvoices(context.Background())
		return invoicesLoadedMsg{invoices: invoices, err: err}
	}
}

func (m *InvoicesModel) clearTable() {
	m.invoices = nil
	m.table.SetRows(nil)
	m.listMsg.Clear()
	m.svc.Book().Invalidate()
}

func (m *InvoicesModel) selectedInvoice() (domain.Invoice, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.invoices) {
		return domain.Invoice{}, false
	}
	return m.invoices[i], true
}

func (m *InvoicesModel) submitCreate() tea.Cmd {
	m.formMsg.Clear()
	if m.createBtn.Disabled() {
		return nil
	}

	customer := m.createForm.Value(createFieldCustomer)
	date := m.createForm.Value(createFieldDate)
	if _, err := domain.NewInvoiceInput(customer, date, service.MsgMissingCreate); err != nil {
		m.formMsg.Show(err.Error(), kindError)
		return nil
	}

	m.createBtn.SetDisabled(true)
	svc := m.svc
	return func() tea.Msg {
		inv, err := svc.CreateInvoice(context.Background(), customer, date)
		return invoiceCreatedMsg{invoice: inv, err: err}
	}
}

func (m *InvoicesModel) itemFormValues() domain.ItemForm {
	return domain.ItemForm{
		InvoiceID: m.itemForm.Value(itemFieldInvoice),
		ItemName:  m.itemForm.Value(itemFieldName),
		UnitPrice: m.itemForm.Value(itemFieldPrice),
		Quantity:  m.itemForm.Value(itemFieldQty),
		Tax:       m.itemForm.Value(itemFieldTax),
		Discount:  m.itemForm.Value(itemFieldDiscount),
	}
}

func (m *InvoicesModel) submitItem() tea.Cmd {
	m.itemMsg.Clear()
	if m.addItemBtn.Disabled() {
		return nil
	}

	f := m.itemFormValues()
	in, err := m.svc.ValidateItem(f)
	if err != nil {
		m.itemMsg.Show(err.Error(), kindError)
		return nil
	}

	m.addItemBtn.SetDisabled(true)
	svc := m.svc
	invoiceID := in.InvoiceID
	return func() tea.Msg {
		_, err := svc.AddItem(context.Background(), f)
		return itemAddedMsg{invoiceID: invoiceID, err: err}
	}
}

// resetItemFields clears the item entry fields but keeps the invoice id
func (m *InvoicesModel) resetItemFields() {
	m.itemForm.SetValue(itemFieldName, "")
	m.itemForm.SetValue(itemFieldPrice, "")
	m.itemForm.SetValue(itemFieldQty, domain.DefaultItemQuantity)
	m.itemForm.SetValue(itemFieldTax, domain.DefaultItemTax)
	m.itemForm.SetValue(itemFieldDiscount, domain.DefaultItemDiscount)
}

func (m *InvoicesModel) askDeleteInvoice(inv domain.Invoice) {
	id := inv.ID
	svc := m.svc
	m.confirm = &confirmPrompt{
		text: fmt.Sprintf("Delete invoice #%d? (y/N)", id),
		onYes: func() tea.Cmd {
			return func() tea.Msg {
				err := svc.DeleteInvoice(context.Background(), id)
				return invoiceDeletedMsg{id: id, err: err}
			}
		},
	}
}

func (m *InvoicesModel) setFocus(f focusArea) tea.Cmd {
	m.createForm.Blur()
	m.itemForm.Blur()
	m.editForm.Blur()
	m.focus = f

	switch f {
	case focusCreate:
		return m.createForm.Focus()
	case focusItem:
		return m.itemForm.Focus()
	case focusEdit:
		return m.editForm.Focus()
	}
	return nil
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case invoicesLoadedMsg:
		return m, m.handleLoaded(msg)

	case invoiceCreatedMsg:
		m.createBtn.SetDisabled(false)
		if msg.err != nil {
			m.formMsg.Show(api.Message(msg.err, service.MsgCreateFailed), kindError)
			return m, nil
		}
		m.formMsg.Show(service.MsgInvoiceCreated, kindSuccess)
		m.createForm.Reset()
		if msg.invoice != nil && msg.invoice.ID != 0 {
			m.autofillID = msg.invoice.ID
		}
		return m, m.reload()

	case invoiceUpdatedMsg:
		return m, m.handleUpdated(msg)

	case closeEditMsg:
		if msg.seq == m.editSeq && m.state.editing != nil {
			return m, m.closeEdit()
		}
		return m, nil

	case invoiceDeletedMsg:
		if msg.err != nil {
			m.listMsg.Show(service.DeleteFailedMessage(msg.err), kindError)
			return m, nil
		}
		if m.state.detailsOpen && m.state.detailsID == msg.id {
			m.closeDetails()
		}
		if m.state.editing != nil && m.state.editing.ID == msg.id {
			m.closeEdit()
		}
		return m, m.reload()

	case itemAddedMsg:
		m.addItemBtn.SetDisabled(false)
		if msg.err != nil {
			m.itemMsg.Show(api.Message(msg.err, service.MsgAddItemFailed), kindError)
			return m, nil
		}
		m.itemMsg.Show(service.MsgItemAdded, kindSuccess)
		m.resetItemFields()
		if m.state.detailsOpen && m.state.detailsID == msg.invoiceID {
			return m, m.loadDetails(msg.invoiceID)
		}
		return m, nil

	case itemDeletedMsg, detailsLoadedMsg, pdfDoneMsg:
		return m, m.updateDetailsMsg(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if m.confirm != nil {
			return m, m.handleConfirm(msg)
		}
		if m.state.editing != nil {
			return m, m.updateEdit(msg)
		}
		if m.state.detailsOpen {
			return m, m.updateDetails(msg)
		}

		switch m.focus {
		case focusCreate:
			return m, m.updateCreate(msg)
		case focusItem:
			return m, m.updateItem(msg)
		default:
			return m, m.updateList(msg)
		}
	}

	// Forward everything else (cursor blink) to the focused input
	var cmd tea.Cmd
	switch {
	case m.state.editing != nil:
		cmd, _ = m.editForm.Update(msg)
	case m.focus == focusCreate:
		cmd, _ = m.createForm.Update(msg)
	case m.focus == focusItem:
		cmd, _ = m.itemForm.Update(msg)
	}
	return m, cmd
}

func (m *InvoicesModel) handleLoaded(msg invoicesLoadedMsg) tea.Cmd {
	m.loading = false
	m.loadBtn.SetDisabled(false)

	switch {
	case msg.err != nil:
		m.listMsg.Show(service.LoadFailedMessage(service.MsgLoadListFailed, msg.err), kindError)
	case len(msg.invoices) == 0:
		m.listMsg.Show(service.MsgNoInvoices, kindInfo)
	default:
		m.invoices = msg.invoices
		rows := make([]table.Row, 0, len(msg.invoices))
		for _, inv := range msg.invoices {
			rows = append(rows, table.Row{
				strconv.FormatInt(inv.ID, 10),
				truncateStr(domain.SanitizeTerminal(inv.Customer), 28),
				domain.SanitizeTerminal(domain.FormatDateShort(inv.Date)),
			})
		}
		m.table.SetRows(rows)
		// SetRows(nil) during reload leaves the cursor at -1
		if c := m.table.Cursor(); c < 0 {
			m.table.SetCursor(0)
		} else if c >= len(rows) {
			m.table.SetCursor(len(rows) - 1)
		}

		last := msg.invoices[len(msg.invoices)-1].ID
		m.itemForm.SetValue(itemFieldInvoice, strconv.FormatInt(last, 10))
	}

	if m.autofillID != 0 {
		m.itemForm.SetValue(itemFieldInvoice, strconv.FormatInt(m.autofillID, 10))
		m.autofillID = 0
	}

	if m.reloadQueued {
		m.reloadQueued = false
		return m.reload()
	}
	return nil
}

func (m *InvoicesModel) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	prompt := m.confirm
	m.confirm = nil
	if key.Matches(msg, DefaultKeyMap.Yes) {
		return prompt.onYes()
	}
	return nil
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, DefaultKeyMap.Load):
		if m.loadBtn.Disabled() {
			// still coalesced into one follow-up load
			m.reloadQueued = true
			return nil
		}
		return m.reload()

	case key.Matches(msg, DefaultKeyMap.Clear):
		m.clearTable()
		return nil

	case key.Matches(msg, DefaultKeyMap.Create):
		return m.setFocus(focusCreate)

	case key.Matches(msg, DefaultKeyMap.AddItem):
		return m.setFocus(focusItem)

	case key.Matches(msg, DefaultKeyMap.Details):
		if inv, ok := m.selectedInvoice(); ok {
			return m.openDetails(inv.ID)
		}
		return nil

	case key.Matches(msg, DefaultKeyMap.Edit):
		if inv, ok := m.selectedInvoice(); ok {
			return m.openEdit(inv)
		}
		return nil

	case key.Matches(msg, DefaultKeyMap.Delete):
		if inv, ok := m.selectedInvoice(); ok {
			m.askDeleteInvoice(inv)
		}
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *InvoicesModel) updateCreate(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, DefaultKeyMap.Back) {
		return m.setFocus(focusList)
	}
	cmd, submit := m.createForm.Update(msg)
	if submit {
		return m.submitCreate()
	}
	return cmd
}

func (m *InvoicesModel) updateItem(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, DefaultKeyMap.Back) {
		return m.setFocus(focusList)
	}
	cmd, submit := m.itemForm.Update(msg)
	if submit {
		return m.submitItem()
	}
	return cmd
}

func (m *InvoicesModel) View() string {
	st := *m.st
	var b strings.Builder

	// Invoice list
	b.WriteString(st.title.Render("Invoices") + "  " + m.loadBtn.View(st) + " " + m.clearBtn.View(st) + "\n\n")
	if len(m.invoices) > 0 {
		b.WriteString(m.table.View() + "\n")
	} else if m.loading {
		b.WriteString(st.subtitle.Render("  Loading...") + "\n")
	}
	if !m.listMsg.Hidden() {
		b.WriteString("  " + m.listMsg.View(st) + "\n")
	}
	if m.confirm != nil {
		b.WriteString("\n  " + st.total.Render(m.confirm.text) + "\n")
	}

	// Forms side by side
	createTitle := st.subtitle
	if m.focus == focusCreate {
		createTitle = st.focused
	}
	create := createTitle.Render("New invoice") + "\n" + m.createForm.View(st) + m.createBtn.View(st)
	if !m.formMsg.Hidden() {
		create += "\n" + m.formMsg.View(st)
	}

	itemTitle := st.subtitle
	if m.focus == focusItem {
		itemTitle = st.focused
	}
	item := itemTitle.Render("Add item") + "\n" + m.itemForm.View(st) + m.addItemBtn.View(st)
	if !m.itemMsg.Hidden() {
		item += "\n" + m.itemMsg.View(st)
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		st.section.Render(create),
		" ",
		st.section.Render(item),
	))
	b.WriteString("\n\n")
	b.WriteString(st.help.Render(m.helpLine()))

	return b.String()
}

func (m *InvoicesModel) helpLine() string {
	switch {
	case m.confirm != nil:
		return "  y: confirm  any other key: cancel"
	case m.focus == focusCreate || m.focus == focusItem:
		return "  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: back to list"
	default:
		return "  j/k: navigate  enter: details  e: edit  d: delete  r: load  x: clear  n: new invoice  a: add item"
	}
}

// Overlay returns the open modal, if any, to be drawn over the page
func (m *InvoicesModel) Overlay() (string, bool) {
	switch {
	case m.state.editing != nil:
		return m.viewEdit(), true
	case m.state.detailsOpen:
		return m.viewDetails(), true
	}
	return "", false
}

// handleMouse closes the open modal on a click outside of it
func (m *InvoicesModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	overlay, ok := m.Overlay()
	if !ok || m.confirm != nil {
		return nil
	}
	if insideCentered(overlay, m.width, m.height, msg.X, msg.Y) {
		return nil
	}

	if m.state.editing != nil {
		return m.closeEdit()
	}
	m.closeDetails()
	return nil
}

// insideCentered reports whether (x, y) falls on a block centered in a w*h area
func insideCentered(block string, w, h, x, y int) bool {
	bw, bh := lipgloss.Size(block)
	left := (w - bw) / 2
	top := (h - bh) / 2
	return x >= left && x < left+bw && y >= top && y < top+bh
}

// tick schedules a message after d
func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
