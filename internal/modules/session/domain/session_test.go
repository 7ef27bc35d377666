package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"studyplan/internal/modules/session/domain"
)

func TestCountdownAndReminderWindows(t *testing.T) {
	t.Parallel()
	s := session(t, "a1", "math", domain.StatusActive, "2024-01-01T10:00", "2024-01-01T11:30", domain.Lesson{Name: "x", Completed: true}, domain.Lesson{Name: "y"})

	during := local(t, "2024-01-01T10:15").Time.Add(15 * time.Second)
	if !s.IsRunning(during) {
		t.Fatalf("session must be running")
	}
	left, ok := s.TimeRemaining(during)
	if !ok || left.String() != "01:14:45" {
		t.Fatalf("unexpected countdown: %v %v", left, ok)
	}

	before := local(t, "2024-01-01T09:56").Time
	if s.IsRunning(before) || !s.StartsWithin(before, 5*time.Minute) {
		t.Fatalf("expected reminder window before start")
	}
	if s.StartsWithin(local(t, "2024-01-01T09:50").Time, 5*time.Minute) {
		t.Fatalf("ten minutes ahead is outside the window")
	}
	if _, ok := s.TimeRemaining(local(t, "2024-01-01T12:00").Time); ok {
		t.Fatalf("no countdown after end")
	}

	p := s.Progress()
	if p.Done != 1 || p.Total != 2 || p.Percent != 50 {
		t.Fatalf("unexpected progress: %+v", p)
	}

	s.Status = domain.StatusPostponed
	if s.IsRunning(during) || s.StartsWithin(before, 5*time.Minute) {
		t.Fatalf("only active sessions run or get reminders")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	if got, err := domain.ParseStatus(" Postponed "); err != nil || got != domain.StatusPostponed {
		t.Fatalf("unexpected parse: %v %v", got, err)
	}
	if _, err := domain.ParseStatus("archived"); err == nil {
		t.Fatalf("expected unknown status error")
	}
}

func TestSecondPrecisionSurvivesJSONRoundTrip(t *testing.T) {
	t.Parallel()
	raw := []byte(`{"subject":"math","startDate":"2024-01-01T10:00:30.5","endDate":"2024-01-01T10:00:45","lessons":[{"name":"limits","completed":false}]}`)

	d := domain.SessionDraft{}
	if err := json.Unmarshal(raw, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("validate incoming draft: %v", err)
	}

	encoded, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again := domain.SessionDraft{}
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if err := again.Validate(); err != nil {
		t.Fatalf("validate after round trip: %v (%s)", err, encoded)
	}
	if !again.StartDate.Equal(d.StartDate.Time) || !again.EndDate.Equal(d.EndDate.Time) {
		t.Fatalf("dates changed: %s", encoded)
	}
	if got := again.StartDate.String(); got != "2024-01-01T10:00:30.5" {
		t.Fatalf("unexpected start: %q", got)
	}
}

func TestMinutePrecisionKeepsShortLayout(t *testing.T) {
	t.Parallel()
	d := local(t, "2024-01-01T10:00:00")
	if got := d.String(); got != "2024-01-01T10:00" {
		t.Fatalf("unexpected format: %q", got)
	}
}
