package domain_test

import (
	"encoding/json"
	"testing"

	"studyplan/internal/modules/session/domain"
)

func TestShareableThenImportResetsCompletion(t *testing.T) {
	t.Parallel()
	store := domain.Sessions{
		session(t, "a1", "math", domain.StatusActive, "2024-01-02T10:00", "2024-01-02T11:00",
			domain.Lesson{Name: "limits", Completed: true}, domain.Lesson{Name: "series"}),
		session(t, "p1", "physics", domain.StatusPostponed, "2024-01-01T10:00", "2024-01-01T11:00", domain.Lesson{Name: "optics"}),
	}
	drafts := store.Shareable()
	if len(drafts) != 1 || drafts[0].Subject != "math" {
		t.Fatalf("only active sessions are shared: %+v", drafts)
	}
	if drafts[0].Lessons[0].Completed {
		t.Fatalf("shared lessons must not be completed")
	}

	next, added := domain.Sessions{}.Import(drafts, seqStamp())
	if len(next) != 1 || len(added) != 1 {
		t.Fatalf("expected one imported session")
	}
	got := added[0]
	if got.ID != "new-1" || got.Status != domain.StatusActive {
		t.Fatalf("imported session must be fresh and active: %+v", got)
	}
	if got.StartDate.String() != "2024-01-02T10:00" || got.EndDate.String() != "2024-01-02T11:00" {
		t.Fatalf("dates must survive the round trip: %+v", got)
	}
	for _, l := range got.Lessons {
		if l.Completed {
			t.Fatalf("imported lessons must be reset: %+v", got.Lessons)
		}
	}
}

func TestSessionJSONAcceptsForeignDateFormats(t *testing.T) {
	t.Parallel()
	raw := `{"id":"x","subject":"math","startDate":"2024-01-01T10:00:00.000","endDate":"2024-01-01T11:00:00","lessons":[{"name":"a","completed":false}],"status":"active","createdAt":"2024-01-01T08:00:00.000Z"}`
	s := domain.StudySession{}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.StartDate.String() != "2024-01-01T10:00" || s.EndDate.Clock() != "11:00" {
		t.Fatalf("unexpected dates: %s %s", s.StartDate, s.EndDate)
	}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back := map[string]any{}
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("decode map: %v", err)
	}
	if back["startDate"] != "2024-01-01T10:00" {
		t.Fatalf("unexpected serialized start: %v", back["startDate"])
	}
}

func TestPayloadValidateRejectsBrokenDrafts(t *testing.T) {
	t.Parallel()
	if err := (domain.SharePayload{}).Validate(); err == nil {
		t.Fatalf("empty payload must be rejected")
	}
	bad := domain.SharePayload{Sessions: []domain.SessionDraft{{
		Subject:   "math",
		StartDate: local(t, "2024-01-01T11:00"),
		EndDate:   local(t, "2024-01-01T10:00"),
		Lessons:   []domain.Lesson{{Name: "a"}},
	}}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("end before start must be rejected")
	}
}
