package command

import (
	"context"
	"sync"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

var _ statsService = &statsServiceMock{}

type statsServiceMock struct {
	VerifyFunc  func(ctx context.Context, token string) (string, error)
	CollectFunc func(ctx context.Context, identity string) (*domain.Statistics, error)
	ExportFunc  func(ctx context.Context, s *domain.Statistics) (string, error)

	calls struct {
		Verify []struct {
			Ctx   context.Context
			Token string
		}
		Collect []struct {
			Ctx      context.Context
			Identity string
		}
		Export []struct {
			Ctx context.Context
			S   *domain.Statistics
		}
	}
	lockVerify  sync.RWMutex
	lockCollect sync.RWMutex
	lockExport  sync.RWMutex
}

func (mock *statsServiceMock) Verify(ctx context.Context, token string) (string, error) {
	if mock.VerifyFunc == nil {
		panic("statsServiceMock.VerifyFunc: method is nil but statsService.Verify was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{Ctx: ctx, Token: token}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, callInfo)
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(ctx, token)
}

func (mock *statsServiceMock) VerifyCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}

func (mock *statsServiceMock) Collect(ctx context.Context, identity string) (*domain.Statistics, error) {
	if mock.CollectFunc == nil {
		panic("statsServiceMock.CollectFunc: method is nil but statsService.Collect was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Identity string
	}{Ctx: ctx, Identity: identity}
	mock.lockCollect.Lock()
	mock.calls.Collect = append(mock.calls.Collect, callInfo)
	mock.lockCollect.Unlock()
	return mock.CollectFunc(ctx, identity)
}

func (mock *statsServiceMock) CollectCalls() []struct {
	Ctx      context.Context
	Identity string
} {
	mock.lockCollect.RLock()
	calls := mock.calls.Collect
	mock.lockCollect.RUnlock()
	return calls
}

func (mock *statsServiceMock) Export(ctx context.Context, s *domain.Statistics) (string, error) {
	if mock.ExportFunc == nil {
		panic("statsServiceMock.ExportFunc: method is nil but statsService.Export was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.Statistics
	}{Ctx: ctx, S: s}
	mock.lockExport.Lock()
	mock.calls.Export = append(mock.calls.Export, callInfo)
	mock.lockExport.Unlock()
	return mock.ExportFunc(ctx, s)
}

func (mock *statsServiceMock) ExportCalls() []struct {
	Ctx context.Context
	S   *domain.Statistics
} {
	mock.lockExport.RLock()
	calls := mock.calls.Export
	mock.lockExport.RUnlock()
	return calls
}
