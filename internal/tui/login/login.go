// ABOUTME: Phone sign-in screen as a bubbletea model
// ABOUTME: Uses a huh form to pick login or registration and collect the phone number

package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tui/styles"
)

// Mode selects between signing in and creating an account
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmitMsg is sent when the form completes with a valid phone number
type SubmitMsg struct {
	Mode  Mode
	Phone string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Login collects the phone number and auth mode
type Login struct {
	form  *huh.Form
	mode  Mode
	phone string
	width int

	// Error from a previous submit attempt, shown above the form
	submitErr string
}

// New creates the sign-in screen
func New() *Login {
	l := &Login{mode: ModeLogin}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Mode]().
				Title("Welcome").
				Options(
					huh.NewOption("Sign in", ModeLogin),
					huh.NewOption("Create account", ModeRegister),
				).
				Value(&l.mode),
			huh.NewInput().
				Title("Phone number").
				Description("International format, e.g. +77011234567").
				Placeholder("+7...").
				CharLimit(16).
				Value(&l.phone).
				Validate(client.ValidatePhone),
		),
	).WithTheme(styles.FormTheme())
}

// SetError surfaces a failed submit so the user can correct and retry
func (l *Login) SetError(msg string) {
	l.submitErr = msg
	l.form = l.createForm()
}

// SetWidth sets the screen width for rendering
func (l *Login) SetWidth(width int) {
	l.width = width
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		mode, phone := l.mode, l.phone
		return l, func() tea.Msg {
			return SubmitMsg{Mode: mode, Phone: phone}
		}
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	out := ""
	if l.submitErr != "" {
		out += styles.StatusError.Render(l.submitErr) + "\n\n"
	}
	return out + l.form.View()
}
