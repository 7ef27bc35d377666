package dto

import "time"

// SessionInput is the add/edit form. Times are HH:mm on Date.
type SessionInput struct {
	ID        string   `json:"id,omitempty"`
	Subject   string   `json:"subject" validate:"required,notblank"`
	Date      string   `json:"date" validate:"required,isodate"`
	StartTime string   `json:"start_time" validate:"required,hhmm"`
	EndTime   string   `json:"end_time" validate:"required,hhmm"`
	Lessons   []string `json:"lessons" validate:"required,min=1,dive,notblank"`
	Status    string   `json:"status,omitempty" validate:"omitempty,oneof=active completed postponed"`
}

type LessonOutput struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type ProgressOutput struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

type SessionOutput struct {
	ID          string         `json:"id"`
	Subject     string         `json:"subject"`
	SubjectName string         `json:"subject_name"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Lessons     []LessonOutput `json:"lessons"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	Progress    ProgressOutput `json:"progress"`
}

type ToggleInput struct {
	SessionID   string `json:"session_id"`
	LessonIndex int    `json:"lesson_index"`
}

type ToggleOutput struct {
	Lesson LessonOutput `json:"lesson"`
	// Session is the toggled session, or the completed session the lesson moved to.
	Session         SessionOutput `json:"session"`
	Moved           bool          `json:"moved"`
	SourceRemoved   bool          `json:"source_removed"`
	SessionFinished bool          `json:"session_finished"`
}

type PostponeOutput struct {
	Postponed *SessionOutput `json:"postponed,omitempty"`
	Completed *SessionOutput `json:"completed,omitempty"`
	Merged    bool           `json:"merged"`
}

type ConflictInput struct {
	Subject   string `json:"subject" validate:"required,notblank"`
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	ExcludeID string `json:"exclude_id,omitempty"`
}

type ConflictOutput struct {
	Conflict bool           `json:"conflict"`
	With     *SessionOutput `json:"with,omitempty"`
}

type ShareOutput struct {
	URL      string `json:"url"`
	Sessions int    `json:"sessions"`
}

type SharedSessionOutput struct {
	Subject     string   `json:"subject"`
	SubjectName string   `json:"subject_name"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Lessons     []string `json:"lessons"`
}

type ImportPreview struct {
	CreatedAt time.Time             `json:"created_at"`
	Sessions  []SharedSessionOutput `json:"sessions"`
}

type ImportOutput struct {
	Added    int             `json:"added"`
	Sessions []SessionOutput `json:"sessions"`
}

type CountdownOutput struct {
	Session   SessionOutput `json:"session"`
	Remaining string        `json:"remaining"`
}

type TickOutput struct {
	At        time.Time         `json:"at"`
	Running   []CountdownOutput `json:"running"`
	Reminders []SessionOutput   `json:"reminders"`
}
