package domain_test

import (
	"testing"

	"studyplan/internal/modules/session/domain"
)

func TestFindConflictUsesHalfOpenIntervals(t *testing.T) {
	t.Parallel()
	store := domain.Sessions{session(t, "m1", "math", domain.StatusActive, "2024-01-01T10:00", "2024-01-01T11:00", domain.Lesson{Name: "x"})}

	cases := []struct {
		name     string
		slot     domain.Slot
		conflict bool
	}{
		{name: "start inside", slot: domain.Slot{Date: "2024-01-01", Start: "10:30", End: "11:30"}, conflict: true},
		{name: "end inside", slot: domain.Slot{Date: "2024-01-01", Start: "09:30", End: "10:15"}, conflict: true},
		{name: "contains", slot: domain.Slot{Date: "2024-01-01", Start: "09:00", End: "12:00"}, conflict: true},
		{name: "touches end", slot: domain.Slot{Date: "2024-01-01", Start: "11:00", End: "12:00"}, conflict: false},
		{name: "touches start", slot: domain.Slot{Date: "2024-01-01", Start: "09:00", End: "10:00"}, conflict: false},
		{name: "other day", slot: domain.Slot{Date: "2024-01-02", Start: "10:30", End: "11:30"}, conflict: false},
	}
	for _, tc := range cases {
		got, found, err := store.FindConflict(tc.slot, "")
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if found != tc.conflict {
			t.Fatalf("%s: expected conflict=%v", tc.name, tc.conflict)
		}
		if found && got.ID != "m1" {
			t.Fatalf("%s: unexpected conflicting session %s", tc.name, got.ID)
		}
	}
}

func TestFindConflictSkipsExcludedAndInactiveSessions(t *testing.T) {
	t.Parallel()
	store := domain.Sessions{
		session(t, "m1", "math", domain.StatusActive, "2024-01-01T10:00", "2024-01-01T11:00", domain.Lesson{Name: "x"}),
		session(t, "p1", "physics", domain.StatusPostponed, "2024-01-01T10:00", "2024-01-01T11:00", domain.Lesson{Name: "x"}),
		session(t, "c1", "chemistry", domain.StatusCompleted, "2024-01-01T10:00", "2024-01-01T11:00", domain.Lesson{Name: "x", Completed: true}),
	}
	slot := domain.Slot{Date: "2024-01-01", Start: "10:15", End: "10:45"}
	if _, found, _ := store.FindConflict(slot, "m1"); found {
		t.Fatalf("excluded and non-active sessions must not conflict")
	}
	if _, _, err := store.FindConflict(domain.Slot{Date: "2024-01-01", Start: "25:00", End: "10:00"}, ""); err == nil {
		t.Fatalf("expected error for malformed slot")
	}
}

func TestFindConflictReportsFirstInStoreOrder(t *testing.T) {
	t.Parallel()
	store := domain.Sessions{
		session(t, "b", "biology", domain.StatusActive, "2024-01-01T10:30", "2024-01-01T11:30", domain.Lesson{Name: "x"}),
		session(t, "a", "arabic", domain.StatusActive, "2024-01-01T10:00", "2024-01-01T11:00", domain.Lesson{Name: "x"}),
	}
	got, found, err := store.FindConflict(domain.Slot{Date: "2024-01-01", Start: "10:00", End: "12:00"}, "")
	if err != nil || !found || got.ID != "b" {
		t.Fatalf("expected first stored conflict b, got %+v found=%v err=%v", got, found, err)
	}
}
