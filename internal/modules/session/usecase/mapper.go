package usecase

import (
	"studyplan/internal/modules/session/domain"
	sessiondto "studyplan/internal/modules/session/dto"
	sessionout "studyplan/internal/modules/session/port/out"
)

func toSessionOutput(s domain.StudySession, catalog sessionout.SubjectCatalog) sessiondto.SessionOutput {
	p := s.Progress()
	out := sessiondto.SessionOutput{
		ID:          s.ID,
		Subject:     s.Subject,
		SubjectName: catalog.SubjectName(s.Subject),
		StartDate:   s.StartDate.String(),
		EndDate:     s.EndDate.String(),
		Lessons:     make([]sessiondto.LessonOutput, 0, len(s.Lessons)),
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		Progress:    sessiondto.ProgressOutput{Done: p.Done, Total: p.Total, Percent: p.Percent},
	}
	for _, l := range s.Lessons {
		out.Lessons = append(out.Lessons, sessiondto.LessonOutput{Name: l.Name, Completed: l.Completed})
	}
	return out
}

func toSessionOutputs(sessions []domain.StudySession, catalog sessionout.SubjectCatalog) []sessiondto.SessionOutput {
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionOutput(s, catalog))
	}
	return out
}
