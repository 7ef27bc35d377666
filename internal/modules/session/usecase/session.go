package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"studyplan/internal/modules/session/domain"
	sessiondto "studyplan/internal/modules/session/dto"
	sessionin "studyplan/internal/modules/session/port/in"
	sessionout "studyplan/internal/modules/session/port/out"
	"studyplan/internal/modules/session/service"
	"studyplan/internal/platform/clock"
	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/validate"
)

const afterStartTag = "after_start"

type Interactor struct {
	store        *service.SessionStore
	codec        sessionout.ShareCodec
	catalog      sessionout.SubjectCatalog
	clock        clock.Clock
	validator    *validate.Validator
	reminderLead time.Duration

	mu       sync.Mutex
	reminded map[string]bool
}

func NewInteractor(store *service.SessionStore, codec sessionout.ShareCodec, catalog sessionout.SubjectCatalog, clk clock.Clock, reminderLead time.Duration) sessionin.Usecase {
	v := validate.New()
	v.RegisterStructRule(endAfterStart, sessiondto.SessionInput{}, sessiondto.ConflictInput{})
	v.RegisterTranslation(afterStartTag, "{0} must be after the start time")
	if reminderLead <= 0 {
		reminderLead = 5 * time.Minute
	}
	return &Interactor{
		store:        store,
		codec:        codec,
		catalog:      catalog,
		clock:        clk,
		validator:    v,
		reminderLead: reminderLead,
		reminded:     map[string]bool{},
	}
}

func endAfterStart(sl validator.StructLevel) {
	var start, end string
	switch in := sl.Current().Interface().(type) {
	case sessiondto.SessionInput:
		start, end = in.StartTime, in.EndTime
	case sessiondto.ConflictInput:
		start, end = in.StartTime, in.EndTime
	default:
		return
	}
	s, errS := time.Parse(domain.ClockLayout, start)
	e, errE := time.Parse(domain.ClockLayout, end)
	if errS != nil || errE != nil {
		return
	}
	if !e.After(s) {
		sl.ReportError(end, "end_time", "EndTime", afterStartTag, "")
	}
}

// check validates input and notifies the first failing category: missing
// fields before an inverted time range.
func (i *Interactor) check(ctx context.Context, input any) error {
	err := i.validator.Struct(input)
	if err == nil {
		return nil
	}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) && verr.HasTag(afterStartTag) && len(verr.Fields) == 1 {
		i.store.Notify(ctx, domain.SeverityError, domain.ShortToast, "end_before_start")
	} else {
		i.store.Notify(ctx, domain.SeverityError, domain.ShortToast, "missing_fields")
	}
	return err
}

func trimLessons(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func slotOf(input sessiondto.SessionInput) domain.Slot {
	return domain.Slot{Date: input.Date, Start: input.StartTime, End: input.EndTime}
}

func compose(input sessiondto.SessionInput) (domain.LocalDateTime, domain.LocalDateTime, error) {
	start, err := domain.Compose(input.Date, input.StartTime)
	if err != nil {
		return domain.LocalDateTime{}, domain.LocalDateTime{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	end, err := domain.Compose(input.Date, input.EndTime)
	if err != nil {
		return domain.LocalDateTime{}, domain.LocalDateTime{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	return start, end, nil
}

func (i *Interactor) Add(ctx context.Context, input sessiondto.SessionInput) (sessiondto.SessionOutput, error) {
	if err := i.check(ctx, input); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	start, end, err := compose(input)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	draft := domain.SessionDraft{Subject: strings.TrimSpace(input.Subject), StartDate: start, EndDate: end}
	for _, name := range trimLessons(input.Lessons) {
		draft.Lessons = append(draft.Lessons, domain.Lesson{Name: name})
	}
	created, err := i.store.Schedule(ctx, draft, slotOf(input))
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toSessionOutput(created, i.catalog), nil
}

// Edit rewrites subject, time range and lessons of an existing session.
// Lesson completion is carried over by position.
func (i *Interactor) Edit(ctx context.Context, input sessiondto.SessionInput) (sessiondto.SessionOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return sessiondto.SessionOutput{}, fmt.Errorf("session id is required: %w", apperrors.ErrInvalidInput)
	}
	if err := i.check(ctx, input); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	var status domain.Status
	if input.Status != "" {
		parsed, err := domain.ParseStatus(input.Status)
		if err != nil {
			return sessiondto.SessionOutput{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
		}
		status = parsed
	}
	start, end, err := compose(input)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	names := trimLessons(input.Lessons)

	updated, err := i.store.Edit(ctx, input.ID, slotOf(input), func(existing domain.StudySession) (domain.StudySession, error) {
		next := existing.Clone()
		if status != "" {
			next.Status = status
		}
		if existing.Status == domain.StatusCompleted && next.Status != domain.StatusCompleted {
			return domain.StudySession{}, fmt.Errorf("reopen completed session %s: %w", existing.ID, apperrors.ErrInvalidTransition)
		}
		next.Subject = strings.TrimSpace(input.Subject)
		next.StartDate = start
		next.EndDate = end
		next.Lessons = nil
		for idx, name := range names {
			completed := idx < len(existing.Lessons) && existing.Lessons[idx].Completed
			next.Lessons = append(next.Lessons, domain.Lesson{Name: name, Completed: completed})
		}
		return next, nil
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toSessionOutput(updated, i.catalog), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.store.Delete(ctx, id)
}

func (i *Interactor) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	s, err := i.store.Get(ctx, id)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toSessionOutput(s, i.catalog), nil
}

// List returns one bucket, or every session in store order when status is empty.
func (i *Interactor) List(ctx context.Context, status string) ([]sessiondto.SessionOutput, error) {
	var (
		sessions domain.Sessions
		err      error
	)
	if strings.TrimSpace(status) == "" {
		sessions, err = i.store.All(ctx)
	} else {
		st, parseErr := domain.ParseStatus(status)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, parseErr)
		}
		sessions, err = i.store.List(ctx, st)
	}
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions, i.catalog), nil
}

func (i *Interactor) ToggleLesson(ctx context.Context, input sessiondto.ToggleInput) (sessiondto.ToggleOutput, error) {
	res, err := i.store.MarkLessonCompleted(ctx, input.SessionID, input.LessonIndex)
	if err != nil {
		return sessiondto.ToggleOutput{}, err
	}
	return sessiondto.ToggleOutput{
		Lesson:          sessiondto.LessonOutput{Name: res.Lesson.Name, Completed: res.Lesson.Completed},
		Session:         toSessionOutput(res.Session, i.catalog),
		Moved:           res.Outcome == domain.ToggledLessonMoved,
		SourceRemoved:   res.SourceRemoved,
		SessionFinished: res.Outcome == domain.ToggledSessionCompleted,
	}, nil
}

func (i *Interactor) Postpone(ctx context.Context, id string) (sessiondto.PostponeOutput, error) {
	res, err := i.store.Postpone(ctx, id)
	if err != nil {
		return sessiondto.PostponeOutput{}, err
	}
	out := sessiondto.PostponeOutput{Merged: res.Merged}
	if res.Postponed != nil {
		p := toSessionOutput(*res.Postponed, i.catalog)
		out.Postponed = &p
	}
	if res.Completed != nil {
		c := toSessionOutput(*res.Completed, i.catalog)
		out.Completed = &c
	}
	return out, nil
}

func (i *Interactor) CheckConflict(ctx context.Context, input sessiondto.ConflictInput) (sessiondto.ConflictOutput, error) {
	if err := i.check(ctx, input); err != nil {
		return sessiondto.ConflictOutput{}, err
	}
	slot := domain.Slot{Date: input.Date, Start: input.StartTime, End: input.EndTime}
	with, found, err := i.store.CheckTimeConflict(ctx, strings.TrimSpace(input.Subject), slot, input.ExcludeID)
	if err != nil {
		return sessiondto.ConflictOutput{}, err
	}
	if !found {
		return sessiondto.ConflictOutput{}, nil
	}
	w := toSessionOutput(with, i.catalog)
	return sessiondto.ConflictOutput{Conflict: true, With: &w}, nil
}

func (i *Interactor) Share(ctx context.Context) (sessiondto.ShareOutput, error) {
	payload, err := i.store.ExportShareable(ctx)
	if err != nil {
		return sessiondto.ShareOutput{}, err
	}
	link, err := i.codec.Encode(payload)
	if err != nil {
		i.store.Notify(ctx, domain.SeverityError, domain.ShortToast, "link_failed")
		return sessiondto.ShareOutput{}, err
	}
	i.store.Notify(ctx, domain.SeveritySuccess, domain.ShortToast, "link_created")
	return sessiondto.ShareOutput{URL: link, Sessions: len(payload.Sessions)}, nil
}

func (i *Interactor) decode(ctx context.Context, link string) (domain.SharePayload, error) {
	payload, err := i.codec.Decode(link)
	if err == nil {
		if verr := payload.Validate(); verr != nil {
			err = fmt.Errorf("validate share payload: %w: %w", apperrors.ErrMalformedShare, verr)
		}
	}
	if err != nil {
		i.store.Notify(ctx, domain.SeverityError, domain.ShortToast, "invalid_link")
		if !errors.Is(err, apperrors.ErrMalformedShare) {
			err = fmt.Errorf("%w: %w", apperrors.ErrMalformedShare, err)
		}
		return domain.SharePayload{}, err
	}
	return payload, nil
}

// PreviewImport decodes a share link without touching the store.
func (i *Interactor) PreviewImport(ctx context.Context, link string) (sessiondto.ImportPreview, error) {
	payload, err := i.decode(ctx, link)
	if err != nil {
		return sessiondto.ImportPreview{}, err
	}
	out := sessiondto.ImportPreview{CreatedAt: payload.CreatedAt}
	for _, d := range payload.Sessions {
		shared := sessiondto.SharedSessionOutput{
			Subject:     d.Subject,
			SubjectName: i.catalog.SubjectName(d.Subject),
			StartDate:   d.StartDate.String(),
			EndDate:     d.EndDate.String(),
		}
		for _, l := range d.Lessons {
			shared.Lessons = append(shared.Lessons, l.Name)
		}
		out.Sessions = append(out.Sessions, shared)
	}
	return out, nil
}

func (i *Interactor) Import(ctx context.Context, link string) (sessiondto.ImportOutput, error) {
	payload, err := i.decode(ctx, link)
	if err != nil {
		return sessiondto.ImportOutput{}, err
	}
	added, err := i.store.ImportShared(ctx, payload)
	if err != nil {
		return sessiondto.ImportOutput{}, err
	}
	return sessiondto.ImportOutput{Added: len(added), Sessions: toSessionOutputs(added, i.catalog)}, nil
}

// Tick reports countdowns for running sessions and fires each start reminder
// once. It never changes session data.
func (i *Interactor) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	now := i.clock.Now()
	active, err := i.store.List(ctx, domain.StatusActive)
	if err != nil {
		return sessiondto.TickOutput{}, err
	}
	out := sessiondto.TickOutput{At: now}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, s := range active {
		if s.IsRunning(now) {
			if left, ok := s.TimeRemaining(now); ok {
				out.Running = append(out.Running, sessiondto.CountdownOutput{Session: toSessionOutput(s, i.catalog), Remaining: left.String()})
			}
		}
		if s.StartsWithin(now, i.reminderLead) && !i.reminded[s.ID] {
			i.reminded[s.ID] = true
			minutes := int(math.Ceil(s.StartDate.Sub(now).Minutes()))
			i.store.Notify(ctx, domain.SeverityInfo, domain.LongToast, "reminder", i.catalog.SubjectName(s.Subject), minutes)
			out.Reminders = append(out.Reminders, toSessionOutput(s, i.catalog))
		}
	}
	return out, nil
}
