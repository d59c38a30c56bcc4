package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/internal/browser"
	"github.com/jshoplabs/jshop/pkg/client"
	"github.com/jshoplabs/jshop/pkg/domain"
	"github.com/jshoplabs/jshop/pkg/session"
)

// dashModal enumerates the dashboard's exclusive overlay states. Exactly one
// is active at a time.
type dashModal int

const (
	modalNone dashModal = iota
	modalAdd
	modalEdit
	modalDelete
	modalView
)

// sessionExpiredMsg signals that the server rejected our credential. The root
// model discards the session and routes to sign-in.
type sessionExpiredMsg struct{}

type dashLoadedMsg struct {
	gen      int
	products []domain.Product
	err      error
}

type productSavedMsg struct {
	gen     int
	product *domain.Product
	created bool
	err     error
}

type productDeletedMsg struct {
	gen int
	id  string
	err error
}

type copyResultMsg struct {
	err error
}

// dashModel is the admin console: the product list plus add/edit/delete/view
// modals. The route guard keeps non-admins out; View also refuses to render
// without an admin session.
type dashModel struct {
	api       *client.Client
	auth      *session.Manager
	products  []domain.Product
	cursor    int
	search    string
	editing   bool // typing in the search box
	modal     dashModal
	form      productForm
	selected  *domain.Product
	busy      bool
	loading   bool
	err       error
	statusMsg string
	opErr     string
	gen       int
	width     int
	height    int
}

func newDashModel(api *client.Client, auth *session.Manager) dashModel {
	return dashModel{api: api, auth: auth, loading: true}
}

func (m dashModel) reload() (dashModel, tea.Cmd) {
	m.gen++
	m.loading = true
	api, gen := m.api, m.gen
	return m, func() tea.Msg {
		products, err := api.ListProducts(context.Background())
		return dashLoadedMsg{gen: gen, products: products, err: err}
	}
}

func (m dashModel) visible() []domain.Product {
	return filterProducts(m.products, m.search)
}

func (m dashModel) current() *domain.Product {
	visible := m.visible()
	if m.cursor >= len(visible) {
		return nil
	}
	p := visible[m.cursor]
	return &p
}

func (m dashModel) Update(msg tea.Msg) (dashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if client.IsUnauthorized(msg.err) {
			return m, func() tea.Msg { return sessionExpiredMsg{} }
		}
		m.products = msg.products
		m.err = msg.err
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case productSavedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.form.errMsg = client.Reason(msg.err)
			return m, nil
		}
		m.modal = modalNone
		if msg.created {
			m.statusMsg = fmt.Sprintf("created %q", msg.product.Name)
		} else {
			m.statusMsg = fmt.Sprintf("updated %q", msg.product.Name)
		}
		return m.reload()

	case productDeletedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.modal = modalNone
			m.opErr = client.Reason(msg.err)
			return m, nil
		}
		m.modal = modalNone
		m.statusMsg = "product deleted"
		return m.reload()

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed: " + msg.err.Error()
		} else {
			m.statusMsg = "image URL copied"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		m.statusMsg = ""
		m.opErr = ""
		switch m.modal {
		case modalAdd, modalEdit:
			return m.updateForm(msg)
		case modalDelete:
			return m.updateDelete(msg)
		case modalView:
			return m.updateView(msg)
		}
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m dashModel) updateSearch(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
	case "esc":
		m.editing = false
		m.search = ""
	default:
		m.search = editRune(m.search, msg.String())
		m.cursor = 0
	}
	return m, nil
}

func (m dashModel) updateList(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.editing = true
	case "r":
		return m.reload()
	case "a":
		m.modal = modalAdd
		m.form = newAddForm()
	case "e":
		if p := m.current(); p != nil {
			m.modal = modalEdit
			m.form = newEditForm(*p)
			m.selected = p
		}
	case "d":
		if p := m.current(); p != nil {
			m.modal = modalDelete
			m.selected = p
		}
	case "v", "enter":
		if p := m.current(); p != nil {
			m.modal = modalView
			m.selected = p
		}
	}
	return m, nil
}

func (m dashModel) updateForm(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	}
	m.form = m.form.update(msg)
	return m, nil
}

// submitForm validates locally first; a rejected form never touches the
// network.
func (m dashModel) submitForm() (dashModel, tea.Cmd) {
	form, ok := m.form.validate()
	m.form = form
	if !ok {
		return m, nil
	}

	m.busy = true
	api, gen := m.api, m.gen
	req := m.form.request()
	if m.modal == modalAdd {
		return m, func() tea.Msg {
			p, err := api.CreateProduct(context.Background(), req)
			return productSavedMsg{gen: gen, product: p, created: true, err: err}
		}
	}
	id := m.form.productID
	return m, func() tea.Msg {
		p, err := api.UpdateProduct(context.Background(), id, req)
		return productSavedMsg{gen: gen, product: p, err: err}
	}
}

func (m dashModel) updateDelete(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		return m, nil
	case "y", "enter":
		if m.selected == nil {
			m.modal = modalNone
			return m, nil
		}
		m.busy = true
		api, gen, id := m.api, m.gen, m.selected.ID
		return m, func() tea.Msg {
			err := api.DeleteProduct(context.Background(), id)
			return productDeletedMsg{gen: gen, id: id, err: err}
		}
	}
	return m, nil
}

func (m dashModel) updateView(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "v":
		m.modal = modalNone
	case "c":
		if m.selected != nil && m.selected.Image != "" {
			url := m.api.ResolveURL(m.selected.Image)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(url)}
			}
		}
	case "o":
		if m.selected != nil && m.selected.Image != "" {
			url := m.api.ResolveURL(m.selected.Image)
			return m, func() tea.Msg {
				if err := browser.Open(url); err != nil {
					return copyResultMsg{err: err}
				}
				return nil
			}
		}
	}
	return m, nil
}

func (m dashModel) View() string {
	if !m.auth.IsAdmin() {
		return ""
	}

	switch m.modal {
	case modalAdd:
		return m.form.view("Add product", m.busy)
	case modalEdit:
		return m.form.view("Edit product", m.busy)
	case modalDelete:
		return m.deleteView()
	case modalView:
		return m.detailView()
	}
	return m.listView()
}

func (m dashModel) listView() string {
	var b strings.Builder

	if m.editing || m.search != "" {
		prompt := searchStyle.Render("/" + m.search)
		if m.editing {
			prompt += accentStyle.Render("█")
		}
		b.WriteString(" " + prompt + "\n\n")
	} else {
		b.WriteString(" " + selectedStyle.Render("Product Dashboard") + "\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading products..."))
		return b.String()
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render(client.Reason(m.err)))
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(" " + dimStyle.Render("no products — press a to add one"))
		return b.String()
	}

	for i, p := range visible {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = "> "
			nameStyle = selectedStyle
		}
		line := cursor + nameStyle.Render(truncStr(p.Name, 36)) + "  " + priceStyle.Render(formatPrice(p.Price))
		line += "  " + metaStyle.Render("#"+truncStr(p.ID, 10))
		b.WriteString(line + "\n")
	}

	b.WriteString("\n " + helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " +
		helpEntry("d", "delete") + "  " + helpEntry("v", "view"))

	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg))
	}
	if m.opErr != "" {
		b.WriteString("\n " + errorStyle.Render(m.opErr))
	}
	return b.String()
}

func (m dashModel) deleteView() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Delete product") + "\n\n")
	name := ""
	if m.selected != nil {
		name = m.selected.Name
	}
	fmt.Fprintf(&b, "Delete %s?\n\n", errorStyle.Render(name))
	if m.busy {
		b.WriteString(dimStyle.Render("deleting..."))
	} else {
		b.WriteString(metaStyle.Render("y delete · esc cancel"))
	}
	return modalBoxStyle.Render(b.String())
}

func (m dashModel) detailView() string {
	var b strings.Builder
	p := m.selected
	if p == nil {
		return ""
	}
	b.WriteString(modalTitleStyle.Render(p.Name) + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("price:"), priceStyle.Render(formatPrice(p.Price)))
	if p.Description != "" {
		fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("about:"), normalStyle.Render(p.Description))
	}
	if p.Image != "" {
		fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("image:"), dimStyle.Render(truncStr(m.api.ResolveURL(p.Image), 60)))
	}
	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(successStyle.Render(m.statusMsg) + "\n")
	}
	b.WriteString(metaStyle.Render("c copy image URL · o open in browser · esc back"))
	return modalBoxStyle.Render(b.String())
}
