package tui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/pkg/client"
	"github.com/jshoplabs/jshop/pkg/session"
)

type view int

const (
	viewShop view = iota
	viewDashboard
	viewLogin
	viewRegister
)

// initLoadMsg kicks off the first catalog fetch after the program starts.
type initLoadMsg struct{}

// App is the root model. It owns navigation: every view change passes through
// navigate, which enforces the access rules before the target is recorded.
type App struct {
	api     *client.Client
	auth    *session.Manager
	logger  *slog.Logger
	version string

	view     view
	shop     shopModel
	dash     dashModel
	login    loginModel
	register registerModel

	helpOpen bool
	status   string
	frame    int
	width    int
	height   int
}

// NewApp wires the root model. The manager must already be bound to the client.
func NewApp(api *client.Client, auth *session.Manager, logger *slog.Logger, version string) App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return App{
		api:      api,
		auth:     auth,
		logger:   logger,
		version:  version,
		shop:     newShopModel(api, auth),
		dash:     newDashModel(api, auth),
		login:    newLoginModel(auth),
		register: newRegisterModel(auth),
	}
}

func (m App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), func() tea.Msg { return initLoadMsg{} })
}

// navigate resolves a navigation request against the current session. A
// denied target is replaced, never recorded: backing out of the replacement
// lands on the view the user came from, not on the denied one.
func (m App) navigate(target view) (App, tea.Cmd) {
	if target == viewDashboard {
		switch {
		case !m.auth.IsAuthenticated():
			m.status = "sign in to manage products"
			m.login = newLoginModel(m.auth)
			m.view = viewLogin
			return m, nil
		case !m.auth.IsAdmin():
			m.status = "the dashboard is for admins only"
			target = viewShop
		}
	}
	m.view = target
	switch target {
	case viewDashboard:
		var cmd tea.Cmd
		m.dash, cmd = m.dash.reload()
		return m, cmd
	case viewLogin:
		m.login = newLoginModel(m.auth)
	case viewRegister:
		m.register = newRegisterModel(m.auth)
	}
	return m, nil
}

// isEditing reports whether keystrokes currently belong to a text input, in
// which case global shortcuts stay out of the way.
func (m App) isEditing() bool {
	switch m.view {
	case viewLogin, viewRegister:
		return true
	case viewShop:
		return m.shop.editing
	case viewDashboard:
		return m.dash.editing || m.dash.modal == modalAdd || m.dash.modal == modalEdit
	}
	return false
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initLoadMsg:
		var cmd tea.Cmd
		m.shop, cmd = m.shop.reload()
		return m, cmd

	case shimmerTickMsg:
		m.frame++
		return m, shimmerTickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.shop, _ = m.shop.Update(msg)
		m.dash, _ = m.dash.Update(msg)
		return m, nil

	case loginDoneMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		if msg.err != nil {
			return m, cmd
		}
		m.status = "signed in as " + msg.user.Username
		m.logger.Info("signed in", "user", msg.user.Username, "role", msg.user.Role)
		if m.auth.IsAdmin() {
			return m.navigate(viewDashboard)
		}
		return m.navigate(viewShop)

	case registerDoneMsg:
		var cmd tea.Cmd
		m.register, cmd = m.register.Update(msg)
		if msg.err != nil {
			return m, cmd
		}
		m.status = "account created, sign in to continue"
		m.login = newLoginModel(m.auth)
		m.login.fields[loginEmail] = msg.email
		m.view = viewLogin
		return m, cmd

	case sessionExpiredMsg:
		m.auth.Expire()
		m.status = "session expired, sign in again"
		m.login = newLoginModel(m.auth)
		m.view = viewLogin
		return m, nil

	case requireLoginMsg:
		m.status = msg.reason
		m.login = newLoginModel(m.auth)
		m.view = viewLogin
		return m, nil

	case shopLoadedMsg:
		var cmd tea.Cmd
		m.shop, cmd = m.shop.Update(msg)
		return m, cmd

	case dashLoadedMsg, productSavedMsg, productDeletedMsg, copyResultMsg:
		var cmd tea.Cmd
		m.dash, cmd = m.dash.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.helpOpen {
		m.helpOpen = false
		return m, nil
	}

	modalOpen := m.view == viewDashboard && m.dash.modal != modalNone
	if !m.isEditing() && !modalOpen {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "h", "?":
			m.helpOpen = true
			return m, nil
		case "1":
			m.status = ""
			return m.navigate(viewShop)
		case "2":
			m.status = ""
			return m.navigate(viewDashboard)
		case "3":
			if !m.auth.IsAuthenticated() {
				m.status = ""
				return m.navigate(viewLogin)
			}
		case "4":
			if !m.auth.IsAuthenticated() {
				m.status = ""
				return m.navigate(viewRegister)
			}
		case "x":
			if m.auth.IsAuthenticated() {
				m.auth.Logout()
				m.status = "signed out"
				return m.navigate(m.view)
			}
		}
	}

	switch msg.String() {
	case "esc":
		switch m.view {
		case viewLogin, viewRegister:
			m.status = ""
			return m.navigate(viewShop)
		case viewDashboard:
			if m.dash.modal == modalNone && !m.dash.editing {
				return m.navigate(viewShop)
			}
		}
	}

	return m.routeKey(msg)
}

func (m App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewShop:
		m.shop, cmd = m.shop.Update(msg)
	case viewDashboard:
		m.dash, cmd = m.dash.Update(msg)
	case viewLogin:
		m.login, cmd = m.login.Update(msg)
	case viewRegister:
		m.register, cmd = m.register.Update(msg)
	}
	return m, cmd
}

func (m App) View() string {
	var b strings.Builder

	b.WriteString(" " + renderShimmerLogo(m.frame) + "   " + m.accountLine() + "\n")
	b.WriteString(" " + m.tabBar() + "\n\n")

	if m.helpOpen {
		b.WriteString(helpView(m.version))
		return b.String()
	}

	var body string
	switch m.view {
	case viewShop:
		body = m.shop.View()
	case viewDashboard:
		body = m.dash.View()
	case viewLogin:
		body = m.login.View()
	case viewRegister:
		body = m.register.View()
	}
	if m.height > 0 {
		body = truncateToHeight(body, m.height-5)
	}
	b.WriteString(body)
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status))
	}
	b.WriteString("\n " + m.helpLine())
	return b.String()
}

func (m App) accountLine() string {
	sess, ok := m.auth.Current()
	if !ok {
		return dimStyle.Render("guest")
	}
	return selectedStyle.Render(sess.User.Username) + " " + RoleBadge(sess.User.Role)
}

func (m App) tabBar() string {
	type tab struct {
		key   string
		label string
		v     view
		show  bool
	}
	tabs := []tab{
		{"1", "shop", viewShop, true},
		{"2", "dashboard", viewDashboard, m.auth.IsAdmin()},
		{"3", "sign in", viewLogin, !m.auth.IsAuthenticated()},
		{"4", "register", viewRegister, !m.auth.IsAuthenticated()},
	}
	var parts []string
	for _, t := range tabs {
		if !t.show {
			continue
		}
		label := t.key + " " + t.label
		if m.view == t.v {
			parts = append(parts, accentStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}
	return strings.Join(parts, dimStyle.Render("  ·  "))
}

func (m App) helpLine() string {
	entries := []string{helpEntry("h", "help")}
	if m.auth.IsAuthenticated() {
		entries = append(entries, helpEntry("x", "sign out"))
	}
	entries = append(entries, helpEntry("q", "quit"))
	return strings.Join(entries, "  ")
}
