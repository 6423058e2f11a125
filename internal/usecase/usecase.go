package usecase

import "context"

type PipelineUC interface {
	StartRun(ctx context.Context) (*RunInfo, error)
	GetRun(ctx context.Context, id string) (*RunInfo, error)
}
