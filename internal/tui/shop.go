package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/pkg/client"
	"github.com/jshoplabs/jshop/pkg/domain"
	"github.com/jshoplabs/jshop/pkg/session"
)

// shopLoadedMsg carries a catalog fetch result. gen identifies the fetch
// generation; stale results are discarded on arrival.
type shopLoadedMsg struct {
	gen      int
	products []domain.Product
	err      error
}

// requireLoginMsg asks the root model to route to the sign-in view.
type requireLoginMsg struct {
	reason string
}

// shopModel is the public storefront: browse and search the catalog, no
// credential required.
type shopModel struct {
	api       *client.Client
	auth      *session.Manager
	products  []domain.Product
	cursor    int
	search    string
	editing   bool // typing in the search box
	loading   bool
	err       error
	statusMsg string
	gen       int
	width     int
	height    int
}

func newShopModel(api *client.Client, auth *session.Manager) shopModel {
	return shopModel{api: api, auth: auth, loading: true}
}

// reload bumps the fetch generation and starts a fresh catalog load. Results
// from any earlier generation are ignored when they land.
func (m shopModel) reload() (shopModel, tea.Cmd) {
	m.gen++
	m.loading = true
	api, gen := m.api, m.gen
	return m, func() tea.Msg {
		products, err := api.ListProducts(context.Background())
		return shopLoadedMsg{gen: gen, products: products, err: err}
	}
}

func (m shopModel) visible() []domain.Product {
	return filterProducts(m.products, m.search)
}

func (m shopModel) Update(msg tea.Msg) (shopModel, tea.Cmd) {
	switch msg := msg.(type) {
	case shopLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.products = msg.products
		m.err = msg.err
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m shopModel) updateSearch(msg tea.KeyMsg) (shopModel, tea.Cmd) {
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

func (m shopModel) updateList(msg tea.KeyMsg) (shopModel, tea.Cmd) {
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
	case "b", "enter":
		return m.buy()
	}
	return m, nil
}

// buy is the demo purchase action: it exists to exercise the login gate.
func (m shopModel) buy() (shopModel, tea.Cmd) {
	visible := m.visible()
	if m.cursor >= len(visible) {
		return m, nil
	}
	p := visible[m.cursor]
	if !m.auth.IsAuthenticated() {
		return m, func() tea.Msg {
			return requireLoginMsg{reason: "sign in to buy " + p.Name}
		}
	}
	m.statusMsg = fmt.Sprintf("Thank you for your interest in %s! This is a demo buy button.", p.Name)
	return m, nil
}

func (m shopModel) View() string {
	var b strings.Builder

	if m.editing || m.search != "" {
		prompt := searchStyle.Render("/" + m.search)
		if m.editing {
			prompt += accentStyle.Render("█")
		}
		b.WriteString(" " + prompt + "\n\n")
	} else {
		b.WriteString(" " + selectedStyle.Render("Our Products") + "\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("loading catalog..."))
		return b.String()
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render(client.Reason(m.err)))
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(" " + dimStyle.Render("no products match"))
		return b.String()
	}

	for i, p := range visible {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = "> "
			nameStyle = selectedStyle
		}
		line := cursor + nameStyle.Render(truncStr(p.Name, 40)) + "  " + priceStyle.Render(formatPrice(p.Price))
		if p.Description != "" {
			line += "  " + metaStyle.Render(truncStr(p.Description, 48))
		}
		b.WriteString(line + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg))
	}
	return b.String()
}
