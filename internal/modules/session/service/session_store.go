package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"studyplan/internal/modules/session/domain"
	sessionout "studyplan/internal/modules/session/port/out"
	"studyplan/internal/platform/clock"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/id"
)

const DefaultKey = "studySessions"

type StoreOptions struct {
	Key string
	// ResetOnCorrupt starts from an empty store instead of failing when the
	// persisted blob cannot be decoded. The blob is overwritten on the next mutation.
	ResetOnCorrupt bool
	Logger         hclog.Logger
}

// SessionStore owns the ordered session list. It loads the blob once and
// writes the whole list back after every mutation.
type SessionStore struct {
	clock          clock.Clock
	idGen          id.Generator
	blobs          sessionout.BlobStore
	notifier       sessionout.Notifier
	catalog        sessionout.SubjectCatalog
	logger         hclog.Logger
	key            string
	resetOnCorrupt bool

	mu       sync.Mutex
	loaded   bool
	sessions domain.Sessions
}

func NewSessionStore(clock clock.Clock, idGen id.Generator, blobs sessionout.BlobStore, notifier sessionout.Notifier, catalog sessionout.SubjectCatalog, opts StoreOptions) *SessionStore {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SessionStore{
		clock:          clock,
		idGen:          idGen,
		blobs:          blobs,
		notifier:       notifier,
		catalog:        catalog,
		logger:         logger,
		key:            key,
		resetOnCorrupt: opts.ResetOnCorrupt,
	}
}

func (s *SessionStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *SessionStore) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, err := s.blobs.Get(ctx, s.key)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("read sessions: %w", err)
	}
	sessions := domain.Sessions{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &sessions); err != nil {
			if !s.resetOnCorrupt {
				s.Notify(ctx, domain.SeverityError, domain.LongToast, "store_unreadable")
				return fmt.Errorf("decode sessions: %w: %w", apperrors.ErrCorruptStore, err)
			}
			s.logger.Warn("discarding unreadable sessions", "key", s.key, "error", err)
			sessions = domain.Sessions{}
		}
	}
	if sessions == nil {
		sessions = domain.Sessions{}
	}
	s.sessions = sessions
	s.loaded = true
	s.logger.Debug("loaded sessions", "key", s.key, "count", len(sessions))
	return nil
}

// mutate applies fn to the current list and swaps the result in only after
// it has been persisted.
func (s *SessionStore) mutate(ctx context.Context, fn func(domain.Sessions) (domain.Sessions, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	next, err := fn(s.sessions)
	if err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.sessions = next
	return nil
}

func (s *SessionStore) persist(ctx context.Context, sessions domain.Sessions) error {
	if sessions == nil {
		sessions = domain.Sessions{}
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := s.blobs.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	s.logger.Debug("persisted sessions", "key", s.key, "count", len(sessions))
	return nil
}

func (s *SessionStore) snapshot(ctx context.Context) (domain.Sessions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.sessions.Clone(), nil
}

func (s *SessionStore) stamp() (string, time.Time) {
	return s.idGen.New(), s.clock.Now()
}

// Notify renders a catalog message and hands it to the notification sink.
func (s *SessionStore) Notify(ctx context.Context, severity domain.Severity, duration time.Duration, key string, args ...any) {
	if s.notifier == nil {
		return
	}
	title, body := s.catalog.Message(key, args...)
	s.notifier.Notify(ctx, domain.Notification{Title: title, Description: body, Severity: severity, Duration: duration})
}

func (s *SessionStore) subjectName(code string) string {
	return s.catalog.SubjectName(code)
}

func (s *SessionStore) All(ctx context.Context) (domain.Sessions, error) {
	return s.snapshot(ctx)
}

func (s *SessionStore) List(ctx context.Context, status domain.Status) (domain.Sessions, error) {
	sessions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.Bucket(status), nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.StudySession, error) {
	sessions, err := s.snapshot(ctx)
	if err != nil {
		return domain.StudySession{}, err
	}
	found, ok := sessions.Find(id)
	if !ok {
		return domain.StudySession{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return found, nil
}

func (s *SessionStore) Add(ctx context.Context, draft domain.SessionDraft) (domain.StudySession, error) {
	var created domain.StudySession
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		created = s.activate(draft)
		return cur.Append(created), nil
	})
	if err != nil {
		return domain.StudySession{}, err
	}
	return created, nil
}

func (s *SessionStore) activate(draft domain.SessionDraft) domain.StudySession {
	newID, at := s.stamp()
	return domain.StudySession{
		ID:        newID,
		Subject:   draft.Subject,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
		Lessons:   append([]domain.Lesson(nil), draft.Lessons...),
		Status:    domain.StatusActive,
		CreatedAt: at,
	}
}

// Schedule adds draft as an active session unless slot overlaps an active
// session. The check and the write happen under one lock.
func (s *SessionStore) Schedule(ctx context.Context, draft domain.SessionDraft, slot domain.Slot) (domain.StudySession, error) {
	var created domain.StudySession
	var clash domain.StudySession
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		var err error
		if clash, err = claim(cur, draft.Subject, slot, ""); err != nil {
			return nil, err
		}
		created = s.activate(draft)
		return cur.Append(created), nil
	})
	if err != nil {
		s.notifyConflict(ctx, err, draft.Subject, clash)
		return domain.StudySession{}, err
	}
	return created, nil
}

// Edit rewrites session id with fn and stores the result unless its new slot
// overlaps another active session. fn sees the current stored session.
func (s *SessionStore) Edit(ctx context.Context, id string, slot domain.Slot, fn func(domain.StudySession) (domain.StudySession, error)) (domain.StudySession, error) {
	var updated domain.StudySession
	var clash domain.StudySession
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		existing, ok := cur.Find(id)
		if !ok {
			return nil, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
		}
		next, err := fn(existing)
		if err != nil {
			return nil, err
		}
		next.ID = existing.ID
		updated = next
		if clash, err = claim(cur, next.Subject, slot, existing.ID); err != nil {
			return nil, err
		}
		out, _ := cur.Replace(next)
		return out, nil
	})
	if err != nil {
		s.notifyConflict(ctx, err, updated.Subject, clash)
		return domain.StudySession{}, err
	}
	return updated, nil
}

func claim(cur domain.Sessions, subject string, slot domain.Slot, excludeID string) (domain.StudySession, error) {
	with, found, err := cur.FindConflict(slot, excludeID)
	if err != nil {
		return domain.StudySession{}, fmt.Errorf("check conflict: %w: %w", apperrors.ErrInvalidInput, err)
	}
	if found {
		return with, fmt.Errorf("%s overlaps %s (%s): %w", subject, with.Subject, with.ID, apperrors.ErrTimeConflict)
	}
	return domain.StudySession{}, nil
}

func (s *SessionStore) notifyConflict(ctx context.Context, err error, subject string, with domain.StudySession) {
	if errors.Is(err, apperrors.ErrTimeConflict) {
		s.Notify(ctx, domain.SeverityError, domain.LongToast, "time_conflict", s.subjectName(subject), s.subjectName(with.Subject))
	}
}

// Update replaces the session with the same id. Unknown ids are ignored.
func (s *SessionStore) Update(ctx context.Context, session domain.StudySession) error {
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		next, ok := cur.Replace(session)
		if !ok {
			return nil, errUnchanged
		}
		return next, nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

// Delete removes the session. Unknown ids are ignored.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		next, ok := cur.Remove(id)
		if !ok {
			return nil, errUnchanged
		}
		return next, nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

var errUnchanged = errors.New("unchanged")

func (s *SessionStore) MarkLessonCompleted(ctx context.Context, id string, index int) (domain.ToggleResult, error) {
	var res domain.ToggleResult
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		var err error
		res, err = cur.ToggleLesson(id, index, s.stamp)
		if err != nil {
			return nil, err
		}
		return res.Sessions, nil
	})
	if err != nil {
		return domain.ToggleResult{}, err
	}
	switch res.Outcome {
	case domain.ToggledLessonMoved:
		s.Notify(ctx, domain.SeveritySuccess, domain.ShortToast, "lesson_moved", s.subjectName(res.Session.Subject))
	case domain.ToggledSessionCompleted:
		s.Notify(ctx, domain.SeveritySuccess, domain.LongToast, "session_completed", s.subjectName(res.Session.Subject))
	}
	return res, nil
}

func (s *SessionStore) Postpone(ctx context.Context, id string) (domain.PostponeResult, error) {
	var res domain.PostponeResult
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		var err error
		res, err = cur.Postpone(id, s.stamp)
		if err != nil {
			return nil, err
		}
		return res.Sessions, nil
	})
	if err != nil {
		return domain.PostponeResult{}, err
	}
	s.Notify(ctx, domain.SeverityInfo, domain.ShortToast, "postponed")
	return res, nil
}

// CheckTimeConflict reports the first active session overlapping slot and
// notifies the subject pair when one is found.
func (s *SessionStore) CheckTimeConflict(ctx context.Context, subject string, slot domain.Slot, excludeID string) (domain.StudySession, bool, error) {
	sessions, err := s.snapshot(ctx)
	if err != nil {
		return domain.StudySession{}, false, err
	}
	conflict, found, err := sessions.FindConflict(slot, excludeID)
	if err != nil {
		return domain.StudySession{}, false, fmt.Errorf("check conflict: %w: %w", apperrors.ErrInvalidInput, err)
	}
	if found {
		s.Notify(ctx, domain.SeverityError, domain.LongToast, "time_conflict", s.subjectName(subject), s.subjectName(conflict.Subject))
	}
	return conflict, found, nil
}

func (s *SessionStore) ImportShared(ctx context.Context, payload domain.SharePayload) ([]domain.StudySession, error) {
	var added []domain.StudySession
	err := s.mutate(ctx, func(cur domain.Sessions) (domain.Sessions, error) {
		var next domain.Sessions
		next, added = cur.Import(payload.Sessions, s.stamp)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	s.Notify(ctx, domain.SeveritySuccess, domain.ShortToast, "imported", len(added))
	return added, nil
}

func (s *SessionStore) ExportShareable(ctx context.Context) (domain.SharePayload, error) {
	sessions, err := s.snapshot(ctx)
	if err != nil {
		return domain.SharePayload{}, err
	}
	drafts := sessions.Shareable()
	if len(drafts) == 0 {
		s.Notify(ctx, domain.SeverityError, domain.ShortToast, "nothing_to_share")
		return domain.SharePayload{}, apperrors.ErrNothingToShare
	}
	return domain.SharePayload{Sessions: drafts, CreatedAt: s.clock.Now()}, nil
}
