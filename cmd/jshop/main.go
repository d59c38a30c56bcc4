package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jshoplabs/jshop/internal/logging"
	"github.com/jshoplabs/jshop/internal/tui"
	"github.com/jshoplabs/jshop/pkg/client"
	"github.com/jshoplabs/jshop/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// apiBaseURL returns the API endpoint, honoring the JSHOP_API_URL override.
func apiBaseURL() string {
	if u := os.Getenv("JSHOP_API_URL"); u != "" {
		return u
	}
	return "http://localhost:5000"
}

func run() error {
	stateDir, err := session.DefaultDir()
	if err != nil {
		return err
	}
	logger := logging.New(stateDir, logging.ParseLevel(os.Getenv("JSHOP_LOG_LEVEL")))

	store := session.NewStore(stateDir, logger)
	auth := session.NewManager(store, logger)
	api := client.New(apiBaseURL(), auth)
	auth.Bind(api)
	auth.Restore()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("jshop " + version)
			return nil
		case "help", "--help", "-h":
			fmt.Print(tui.HelpText(version))
			return nil
		case "login":
			return runLogin(auth)
		case "register":
			return runRegister(auth)
		case "logout":
			return runLogout(auth)
		default:
			return fmt.Errorf("unknown command %q — run 'jshop help'", os.Args[1])
		}
	}

	app := tui.NewApp(api, auth, logger, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(auth *session.Manager) error {
	if sess, ok := auth.Current(); ok {
		fmt.Printf("Already signed in as %s. Run 'jshop logout' first to switch accounts.\n", sess.User.Username)
		return nil
	}

	in := bufio.NewReader(os.Stdin)
	email, err := prompt(in, "Email: ")
	if err != nil {
		return err
	}
	password, err := prompt(in, "Password: ")
	if err != nil {
		return err
	}

	user, err := auth.Login(context.Background(), email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func runRegister(auth *session.Manager) error {
	in := bufio.NewReader(os.Stdin)
	username, err := prompt(in, "Username: ")
	if err != nil {
		return err
	}
	email, err := prompt(in, "Email: ")
	if err != nil {
		return err
	}
	password, err := prompt(in, "Password: ")
	if err != nil {
		return err
	}

	if err := auth.Register(context.Background(), username, email, password); err != nil {
		return err
	}
	fmt.Println("Account created. Run 'jshop login' to sign in.")
	return nil
}

func runLogout(auth *session.Manager) error {
	if !auth.IsAuthenticated() {
		fmt.Println("Already signed out.")
		return nil
	}
	auth.Logout()
	fmt.Println("Signed out.")
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
