package inject

import (
	"context"

	"go.viam.com/pickplace/ik"
)

// IKService is an injected inverse kinematics service.
type IKService struct {
	ik.Service
	WaitForReadyFunc func(ctx context.Context) error
	SolveFunc        func(ctx context.Context, req *ik.Request) (*ik.Response, error)
}

// WaitForReady calls the injected WaitForReady or the real version.
func (s *IKService) WaitForReady(ctx context.Context) error {
	if s.WaitForReadyFunc == nil {
		return s.Service.WaitForReady(ctx)
	}
	return s.WaitForReadyFunc(ctx)
}

// Solve calls the injected Solve or the real version.
func (s *IKService) Solve(ctx context.Context, req *ik.Request) (*ik.Response, error) {
	if s.SolveFunc == nil {
		return s.Service.Solve(ctx, req)
	}
	return s.SolveFunc(ctx, req)
}
