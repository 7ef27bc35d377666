package in

import (
	"context"

	"studyplan/internal/modules/session/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error)
	Edit(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.SessionOutput, error)
	List(ctx context.Context, status string) ([]dto.SessionOutput, error)
	ToggleLesson(ctx context.Context, input dto.ToggleInput) (dto.ToggleOutput, error)
	Postpone(ctx context.Context, id string) (dto.PostponeOutput, error)
	CheckConflict(ctx context.Context, input dto.ConflictInput) (dto.ConflictOutput, error)
	Share(ctx context.Context) (dto.ShareOutput, error)
	PreviewImport(ctx context.Context, link string) (dto.ImportPreview, error)
	Import(ctx context.Context, link string) (dto.ImportOutput, error)
	Tick(ctx context.Context) (dto.TickOutput, error)
}
