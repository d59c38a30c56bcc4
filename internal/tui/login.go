package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/pkg/domain"
	"github.com/jshoplabs/jshop/pkg/session"
)

type loginField int

const (
	loginEmail loginField = iota
	loginPassword
	numLoginFields
)

// loginDoneMsg carries the result of a login exchange. The root model
// intercepts it for navigation; this model uses it to surface errors.
type loginDoneMsg struct {
	user domain.User
	err  error
}

type loginModel struct {
	auth       *session.Manager
	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	errMsg     string
}

func newLoginModel(auth *session.Manager) loginModel {
	return loginModel{auth: auth}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.fields[loginPassword] = ""
			m.focus = loginPassword
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.errMsg = ""
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % numLoginFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
		case "enter":
			if m.focus == loginPassword {
				return m.submit()
			}
			m.focus++
		case "backspace":
			m.fields[m.focus] = editRune(m.fields[m.focus], "backspace")
		default:
			key := msg.String()
			if len(key) == 1 {
				m.fields[m.focus] = editRune(m.fields[m.focus], key)
			}
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[loginEmail])
	password := m.fields[loginPassword]
	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return m, nil
	}

	m.submitting = true
	auth := m.auth
	return m, func() tea.Msg {
		user, err := auth.Login(context.Background(), email, password)
		return loginDoneMsg{user: user, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Sign in") + "\n\n")

	labels := [numLoginFields]string{"email", "password"}
	for i := loginField(0); i < numLoginFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == loginPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}
		if i == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(labels[i]), value)
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("signing in..."))
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	default:
		b.WriteString(metaStyle.Render("enter to sign in · esc to browse"))
	}

	return modalBoxStyle.Render(b.String())
}
