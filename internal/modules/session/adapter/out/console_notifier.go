package out

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"studyplan/internal/modules/session/domain"
	sessionout "studyplan/internal/modules/session/port/out"
)

// ConsoleNotifier prints notifications as one styled line each.
type ConsoleNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	badges map[domain.Severity]lipgloss.Style
	body   lipgloss.Style
}

func NewConsoleNotifier(w io.Writer) sessionout.Notifier {
	r := lipgloss.NewRenderer(w)
	badge := r.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#1e1e2e"))
	return &ConsoleNotifier{
		w: w,
		badges: map[domain.Severity]lipgloss.Style{
			domain.SeverityInfo:    badge.Background(lipgloss.Color("#89b4fa")),
			domain.SeveritySuccess: badge.Background(lipgloss.Color("#a6e3a1")),
			domain.SeverityError:   badge.Background(lipgloss.Color("#f38ba8")),
		},
		body: r.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
	}
}

func (n *ConsoleNotifier) Notify(_ context.Context, note domain.Notification) {
	badge, ok := n.badges[note.Severity]
	if !ok {
		badge = n.badges[domain.SeverityInfo]
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if note.Description == "" {
		_, _ = fmt.Fprintln(n.w, badge.Render(note.Title))
		return
	}
	_, _ = fmt.Fprintf(n.w, "%s %s\n", badge.Render(note.Title), n.body.Render(note.Description))
}
