package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPostponed Status = "postponed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPostponed:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

const (
	LocalLayout = "2006-01-02T15:04"
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// preciseLayout keeps sub-minute parts read from foreign payloads.
	preciseLayout = "2006-01-02T15:04:05.999999999"
)

var localLayouts = []string{LocalLayout, "2006-01-02T15:04:05"}

// LocalDateTime is a wall-clock datetime serialized without a zone.
type LocalDateTime struct {
	time.Time
}

func ParseLocal(raw string) (LocalDateTime, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return LocalDateTime{Time: t}, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return LocalDateTime{Time: t.In(time.Local)}, nil
	}
	return LocalDateTime{}, fmt.Errorf("invalid local datetime %q", raw)
}

// Compose joins a YYYY-MM-DD date and an HH:mm time.
func Compose(date, clock string) (LocalDateTime, error) {
	return ParseLocal(date + "T" + clock)
}

func (d LocalDateTime) String() string {
	if d.IsZero() {
		return ""
	}
	if d.Second() != 0 || d.Nanosecond() != 0 {
		return d.Format(preciseLayout)
	}
	return d.Format(LocalLayout)
}

func (d LocalDateTime) Date() string {
	return d.Format(DateLayout)
}

func (d LocalDateTime) Clock() string {
	return d.Format(ClockLayout)
}

func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LocalDateTime) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(raw, []byte("null")) {
		*d = LocalDateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if s == "" {
		*d = LocalDateTime{}
		return nil
	}
	parsed, err := ParseLocal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Lesson struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type StudySession struct {
	ID        string        `json:"id"`
	Subject   string        `json:"subject"`
	StartDate LocalDateTime `json:"startDate"`
	EndDate   LocalDateTime `json:"endDate"`
	Lessons   []Lesson      `json:"lessons"`
	Status    Status        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// SessionDraft is a session before it is stamped with id, status and creation time.
type SessionDraft struct {
	Subject   string        `json:"subject"`
	StartDate LocalDateTime `json:"startDate"`
	EndDate   LocalDateTime `json:"endDate"`
	Lessons   []Lesson      `json:"lessons"`
}

func (d SessionDraft) Validate() error {
	if strings.TrimSpace(d.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if !d.EndDate.After(d.StartDate.Time) {
		return fmt.Errorf("end date must be after start date")
	}
	if len(d.Lessons) == 0 {
		return fmt.Errorf("at least one lesson is required")
	}
	for i, l := range d.Lessons {
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("lesson %d has no name", i+1)
		}
	}
	return nil
}

func (s StudySession) Clone() StudySession {
	s.Lessons = append([]Lesson(nil), s.Lessons...)
	return s
}

func (s StudySession) Draft() SessionDraft {
	return SessionDraft{
		Subject:   s.Subject,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Lessons:   append([]Lesson(nil), s.Lessons...),
	}
}

func (s StudySession) AllCompleted() bool {
	if len(s.Lessons) == 0 {
		return false
	}
	for _, l := range s.Lessons {
		if !l.Completed {
			return false
		}
	}
	return true
}

type Progress struct {
	Done    int
	Total   int
	Percent float64
}

func (s StudySession) Progress() Progress {
	p := Progress{Total: len(s.Lessons)}
	for _, l := range s.Lessons {
		if l.Completed {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Done) * 100 / float64(p.Total)
	}
	return p
}

// IsRunning reports whether now falls inside [start, end] of an active session.
func (s StudySession) IsRunning(now time.Time) bool {
	if s.Status != StatusActive {
		return false
	}
	return !now.Before(s.StartDate.Time) && !now.After(s.EndDate.Time)
}

type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
}

func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// TimeRemaining counts down to the session end. It is false once the end has passed.
func (s StudySession) TimeRemaining(now time.Time) (Remaining, bool) {
	left := s.EndDate.Sub(now)
	if left <= 0 {
		return Remaining{}, false
	}
	total := int(left / time.Second)
	return Remaining{Hours: total / 3600, Minutes: total % 3600 / 60, Seconds: total % 60}, true
}

// StartsWithin reports whether an active session starts after now and no later than now+lead.
func (s StudySession) StartsWithin(now time.Time, lead time.Duration) bool {
	if s.Status != StatusActive {
		return false
	}
	until := s.StartDate.Sub(now)
	return until > 0 && until <= lead
}
