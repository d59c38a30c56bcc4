package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/pkg/session"
)

type registerField int

const (
	regUsername registerField = iota
	regEmail
	regPassword
	numRegisterFields
)

// registerDoneMsg carries the result of a registration attempt. The root
// model intercepts success to hand off to the sign-in view.
type registerDoneMsg struct {
	email string
	err   error
}

type registerModel struct {
	auth       *session.Manager
	fields     [numRegisterFields]string
	focus      registerField
	submitting bool
	errMsg     string
}

func newRegisterModel(auth *session.Manager) registerModel {
	return registerModel{auth: auth}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.errMsg = ""
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % numRegisterFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + numRegisterFields) % numRegisterFields
		case "enter":
			if m.focus == regPassword {
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

func (m registerModel) submit() (registerModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[regUsername])
	email := strings.TrimSpace(m.fields[regEmail])
	password := m.fields[regPassword]
	if username == "" || email == "" || password == "" {
		m.errMsg = "all fields are required"
		return m, nil
	}

	m.submitting = true
	auth := m.auth
	return m, func() tea.Msg {
		err := auth.Register(context.Background(), username, email, password)
		return registerDoneMsg{email: email, err: err}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Create account") + "\n\n")

	labels := [numRegisterFields]string{"username", "email", "password"}
	for i := registerField(0); i < numRegisterFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == regPassword {
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
		b.WriteString(dimStyle.Render("creating account..."))
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	default:
		b.WriteString(metaStyle.Render("enter to register · esc to browse"))
	}

	return modalBoxStyle.Render(b.String())
}
