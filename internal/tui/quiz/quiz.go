// ABOUTME: Daily quiz screen stepping through questions one at a time
// ABOUTME: Collects answers keyed by question id and submits them together

package quiz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// SubmitMsg carries the collected answers to the app for submission
type SubmitMsg struct {
	Answers map[int64]string
}

// Quiz walks the user through today's questions
type Quiz struct {
	questions []client.QuizQuestion
	answers   map[int64]string
	current   int
	cursor    int
	submitted bool
	reward    int64
	hasReward bool
	errText   string
	width     int
}

// New creates the quiz screen from fetched questions
func New(questions []client.QuizQuestion) *Quiz {
	return &Quiz{
		questions: questions,
		answers:   make(map[int64]string),
	}
}

// SetResult records the reward returned by the submission
func (q *Quiz) SetResult(reward int64) {
	q.reward = reward
	q.hasReward = true
	q.errText = ""
}

// SetError surfaces a failed submission
func (q *Quiz) SetError(msg string) {
	q.submitted = false
	q.errText = msg
}

// SetSize updates the screen dimensions
func (q *Quiz) SetSize(width, _ int) {
	q.width = width
}

// optionKeys returns the current question's option keys in stable order
func (q *Quiz) optionKeys() []string {
	keys := make([]string, 0, len(q.questions[q.current].Options))
	for k := range q.questions[q.current].Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Init implements tea.Model
func (q *Quiz) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (q *Quiz) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return q, nil
	}
	if len(q.questions) == 0 || q.submitted {
		return q, nil
	}

	keys := q.optionKeys()

	switch key.String() {
	case "up", "k":
		if q.cursor > 0 {
			q.cursor--
		}
	case "down", "j":
		if q.cursor < len(keys)-1 {
			q.cursor++
		}
	case "enter":
		question := q.questions[q.current]
		q.answers[question.ID] = keys[q.cursor]
		q.cursor = 0

		if q.current < len(q.questions)-1 {
			q.current++
			return q, nil
		}

		q.submitted = true
		answers := q.answers
		return q, func() tea.Msg { return SubmitMsg{Answers: answers} }
	}

	return q, nil
}

// View implements tea.Model
func (q *Quiz) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Quiz.String() + " Daily Quiz"))
	sb.WriteString("\n")

	switch {
	case q.hasReward:
		sb.WriteString("Quiz complete! " + widgets.RewardBadge(q.reward))
		return sb.String()
	case q.errText != "":
		sb.WriteString(styles.StatusWarning.Render(q.errText))
		return sb.String()
	case len(q.questions) == 0:
		sb.WriteString(styles.Subtitle.Render("No quiz available today"))
		return sb.String()
	case q.submitted:
		sb.WriteString(styles.Subtitle.Render("Checking answers..."))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Question %d of %d  %s\n\n",
		q.current+1, len(q.questions),
		widgets.QuizBar(q.current, len(q.questions), 10, styles.Bean)))

	sb.WriteString(styles.ValueStyle.Render(q.questions[q.current].Question))
	sb.WriteString("\n\n")

	for i, k := range q.optionKeys() {
		line := q.questions[q.current].Options[k]
		if i == q.cursor {
			sb.WriteString(styles.SelectedRow.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
