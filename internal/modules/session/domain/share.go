package domain

import (
	"fmt"
	"time"
)

// SharePayload is what a share link carries.
type SharePayload struct {
	Sessions  []SessionDraft `json:"sessions"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (p SharePayload) Validate() error {
	if len(p.Sessions) == 0 {
		return fmt.Errorf("payload has no sessions")
	}
	for i, d := range p.Sessions {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("session %d: %w", i+1, err)
		}
	}
	return nil
}

func resetLessons(lessons []Lesson) []Lesson {
	out := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, Lesson{Name: l.Name})
	}
	return out
}

// Shareable strips completion state from the active sessions.
func (ss Sessions) Shareable() []SessionDraft {
	active := ss.Bucket(StatusActive)
	out := make([]SessionDraft, 0, len(active))
	for _, s := range active {
		d := s.Draft()
		d.Lessons = resetLessons(d.Lessons)
		out = append(out, d)
	}
	return out
}

// Import appends every draft as a fresh active session with no completed lessons.
func (ss Sessions) Import(drafts []SessionDraft, stamp Stamp) (Sessions, []StudySession) {
	out := ss.Clone()
	added := make([]StudySession, 0, len(drafts))
	for _, d := range drafts {
		id, at := stamp()
		s := StudySession{
			ID:        id,
			Subject:   d.Subject,
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
			Lessons:   resetLessons(d.Lessons),
			Status:    StatusActive,
			CreatedAt: at,
		}
		out = append(out, s)
		added = append(added, s.Clone())
	}
	return out, added
}
