package in

import (
	"context"

	sessiondto "studyplan/internal/modules/session/dto"
	sessionin "studyplan/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, subject, date, start, end string, lessons []string) (sessiondto.SessionOutput, error) {
	return h.usecase.Add(ctx, sessiondto.SessionInput{Subject: subject, Date: date, StartTime: start, EndTime: end, Lessons: lessons})
}

func (h CLIHandler) Edit(ctx context.Context, input sessiondto.SessionInput) (sessiondto.SessionOutput, error) {
	return h.usecase.Edit(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) List(ctx context.Context, status string) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx, status)
}

func (h CLIHandler) Toggle(ctx context.Context, sessionID string, lessonIndex int) (sessiondto.ToggleOutput, error) {
	return h.usecase.ToggleLesson(ctx, sessiondto.ToggleInput{SessionID: sessionID, LessonIndex: lessonIndex})
}

func (h CLIHandler) Postpone(ctx context.Context, id string) (sessiondto.PostponeOutput, error) {
	return h.usecase.Postpone(ctx, id)
}

func (h CLIHandler) CheckConflict(ctx context.Context, subject, date, start, end, excludeID string) (sessiondto.ConflictOutput, error) {
	return h.usecase.CheckConflict(ctx, sessiondto.ConflictInput{Subject: subject, Date: date, StartTime: start, EndTime: end, ExcludeID: excludeID})
}

func (h CLIHandler) Share(ctx context.Context) (sessiondto.ShareOutput, error) {
	return h.usecase.Share(ctx)
}

func (h CLIHandler) PreviewImport(ctx context.Context, link string) (sessiondto.ImportPreview, error) {
	return h.usecase.PreviewImport(ctx, link)
}

func (h CLIHandler) Import(ctx context.Context, link string) (sessiondto.ImportOutput, error) {
	return h.usecase.Import(ctx, link)
}

func (h CLIHandler) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	return h.usecase.Tick(ctx)
}
