package domain

import (
	"fmt"
	"sort"
	"time"

	apperrors "studyplan/internal/platform/errors"
)

// Stamp mints the id and creation time of a session created by a transform.
type Stamp func() (string, time.Time)

// Sessions is the ordered store content. Every transform returns a new slice
// and leaves the receiver untouched.
type Sessions []StudySession

func (ss Sessions) Clone() Sessions {
	out := make(Sessions, len(ss))
	for i, s := range ss {
		out[i] = s.Clone()
	}
	return out
}

func (ss Sessions) Index(id string) int {
	for i, s := range ss {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (ss Sessions) Find(id string) (StudySession, bool) {
	idx := ss.Index(id)
	if idx < 0 {
		return StudySession{}, false
	}
	return ss[idx].Clone(), true
}

func (ss Sessions) Append(s StudySession) Sessions {
	out := ss.Clone()
	return append(out, s.Clone())
}

// Replace swaps the entry with the same id. The bool is false when nothing matched.
func (ss Sessions) Replace(s StudySession) (Sessions, bool) {
	idx := ss.Index(s.ID)
	if idx < 0 {
		return ss, false
	}
	out := ss.Clone()
	out[idx] = s.Clone()
	return out, true
}

func (ss Sessions) Remove(id string) (Sessions, bool) {
	idx := ss.Index(id)
	if idx < 0 {
		return ss, false
	}
	out := make(Sessions, 0, len(ss)-1)
	for i, s := range ss {
		if i != idx {
			out = append(out, s.Clone())
		}
	}
	return out, true
}

// Bucket filters by status. Active sessions are ordered by start date.
func (ss Sessions) Bucket(status Status) Sessions {
	out := Sessions{}
	for _, s := range ss {
		if s.Status == status {
			out = append(out, s.Clone())
		}
	}
	if status == StatusActive {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartDate.Before(out[j].StartDate.Time)
		})
	}
	return out
}

func (ss Sessions) firstCompleted(subject string) int {
	for i, s := range ss {
		if s.Status == StatusCompleted && s.Subject == subject {
			return i
		}
	}
	return -1
}

// fileCompleted appends lessons to the first completed session of the same
// subject, or to a new completed session copying the date range of origin.
func (ss Sessions) fileCompleted(origin StudySession, lessons []Lesson, stamp Stamp) (Sessions, StudySession, bool) {
	if idx := ss.firstCompleted(origin.Subject); idx >= 0 {
		ss[idx].Lessons = append(ss[idx].Lessons, lessons...)
		return ss, ss[idx].Clone(), true
	}
	id, at := stamp()
	created := StudySession{
		ID:        id,
		Subject:   origin.Subject,
		StartDate: origin.StartDate,
		EndDate:   origin.EndDate,
		Lessons:   append([]Lesson(nil), lessons...),
		Status:    StatusCompleted,
		CreatedAt: at,
	}
	return append(ss, created), created.Clone(), false
}

type ToggleOutcome int

const (
	// ToggledInPlace flipped the flag without any status side effect.
	ToggledInPlace ToggleOutcome = iota
	// ToggledSessionCompleted finished the last lesson of an active session.
	ToggledSessionCompleted
	// ToggledLessonMoved moved a lesson out of a postponed session.
	ToggledLessonMoved
)

type ToggleResult struct {
	Sessions Sessions
	Outcome  ToggleOutcome
	Lesson   Lesson
	// Session is the toggled session, or the completed session that received
	// the moved lesson.
	Session StudySession
	// SourceRemoved is set when moving the lesson emptied the postponed session.
	SourceRemoved bool
}

// ToggleLesson flips lesson index of session id. An active session whose
// lessons are all done becomes completed and stays completed if a lesson is
// toggled back later.
func (ss Sessions) ToggleLesson(id string, index int, stamp Stamp) (ToggleResult, error) {
	idx := ss.Index(id)
	if idx < 0 {
		return ToggleResult{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	if index < 0 || index >= len(ss[idx].Lessons) {
		return ToggleResult{}, fmt.Errorf("lesson %d of session %s: %w", index, id, apperrors.ErrNotFound)
	}

	out := ss.Clone()
	session := out[idx]
	session.Lessons[index].Completed = !session.Lessons[index].Completed
	lesson := session.Lessons[index]

	switch {
	case session.Status == StatusPostponed && lesson.Completed:
		session.Lessons = append(session.Lessons[:index:index], session.Lessons[index+1:]...)
		out[idx] = session
		removed := false
		if len(session.Lessons) == 0 {
			out, _ = out.Remove(session.ID)
			removed = true
		}
		var target StudySession
		out, target, _ = out.fileCompleted(session, []Lesson{lesson}, stamp)
		return ToggleResult{Sessions: out, Outcome: ToggledLessonMoved, Lesson: lesson, Session: target, SourceRemoved: removed}, nil
	case session.Status == StatusActive && session.AllCompleted():
		session.Status = StatusCompleted
		out[idx] = session
		return ToggleResult{Sessions: out, Outcome: ToggledSessionCompleted, Lesson: lesson, Session: session.Clone()}, nil
	default:
		out[idx] = session
		return ToggleResult{Sessions: out, Outcome: ToggledInPlace, Lesson: lesson, Session: session.Clone()}, nil
	}
}

type PostponeResult struct {
	Sessions Sessions
	// Postponed holds the incomplete remainder, if any.
	Postponed *StudySession
	// Completed is the session that received the completed remainder, if any.
	Completed *StudySession
	// Merged is set when Completed already existed.
	Merged bool
}

// Postpone splits a session into its incomplete and completed lessons and
// removes the original. Completed sessions cannot be postponed.
func (ss Sessions) Postpone(id string, stamp Stamp) (PostponeResult, error) {
	original, ok := ss.Find(id)
	if !ok {
		return PostponeResult{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	if original.Status == StatusCompleted {
		return PostponeResult{}, fmt.Errorf("postpone completed session %s: %w", id, apperrors.ErrInvalidTransition)
	}

	var incomplete, completed []Lesson
	for _, l := range original.Lessons {
		if l.Completed {
			completed = append(completed, l)
		} else {
			incomplete = append(incomplete, Lesson{Name: l.Name})
		}
	}

	out, _ := ss.Remove(id)
	res := PostponeResult{}
	if len(incomplete) > 0 {
		newID, at := stamp()
		postponed := StudySession{
			ID:        newID,
			Subject:   original.Subject,
			StartDate: original.StartDate,
			EndDate:   original.EndDate,
			Lessons:   incomplete,
			Status:    StatusPostponed,
			CreatedAt: at,
		}
		out = append(out, postponed)
		res.Postponed = &postponed
	}
	if len(completed) > 0 {
		var target StudySession
		out, target, res.Merged = out.fileCompleted(original, completed, stamp)
		res.Completed = &target
	}
	res.Sessions = out
	return res, nil
}
