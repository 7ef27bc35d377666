package out

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"studyplan/internal/modules/session/domain"
	sessionout "studyplan/internal/modules/session/port/out"
)

type LogNotifier struct {
	logger hclog.Logger
}

func NewLogNotifier(logger hclog.Logger) sessionout.Notifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, note domain.Notification) {
	args := []any{"title", note.Title, "description", note.Description, "severity", string(note.Severity), "duration", note.Duration}
	if note.Severity == domain.SeverityError {
		n.logger.Warn("notification", args...)
		return
	}
	n.logger.Info("notification", args...)
}
