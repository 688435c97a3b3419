// ABOUTME: Daily spin screen for the loyalty wheel
// ABOUTME: Shows the reward on success and the already-spun state on repeat attempts

package spin

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// RequestMsg asks the app to call the daily spin endpoint
type RequestMsg struct{}

// Spin renders the daily wheel state
type Spin struct {
	spinning bool
	won      int64
	hasWon   bool
	errText  string
	width    int
}

// New creates the spin screen
func New() *Spin {
	return &Spin{}
}

// SetResult records a successful spin
func (s *Spin) SetResult(beansWon int64) {
	s.spinning = false
	s.won = beansWon
	s.hasWon = true
	s.errText = ""
}

// SetError records a failed spin, e.g. the once-per-day rejection
func (s *Spin) SetError(msg string) {
	s.spinning = false
	s.errText = msg
}

// SetSize updates the screen dimensions
func (s *Spin) SetSize(width, _ int) {
	s.width = width
}

// Init implements tea.Model
func (s *Spin) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *Spin) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if key.String() == "enter" && !s.spinning && !s.hasWon {
		s.spinning = true
		return s, func() tea.Msg { return RequestMsg{} }
	}
	return s, nil
}

// View implements tea.Model
func (s *Spin) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Spin.String() + " Daily Spin"))
	sb.WriteString("\n")

	switch {
	case s.spinning:
		sb.WriteString(styles.Subtitle.Render("Spinning..."))
	case s.hasWon:
		sb.WriteString("You won " + widgets.RewardBadge(s.won))
	case s.errText != "":
		sb.WriteString(styles.StatusWarning.Render(s.errText))
	default:
		sb.WriteString("Press " + styles.KeyStyle.Render("Enter") + " to spin the wheel")
	}

	return sb.String()
}
