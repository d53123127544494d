package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/painstats-backend/internal/transport/command"
)

var _ dispatcher = &dispatcherMock{}

type dispatcherMock struct {
	HandleFunc func(ctx context.Context, cmd command.Command, opts command.Options) command.Envelope

	calls struct {
		Handle []struct {
			Ctx  context.Context
			Cmd  command.Command
			Opts command.Options
		}
	}
	lockHandle sync.RWMutex
}

func (mock *dispatcherMock) Handle(ctx context.Context, cmd command.Command, opts command.Options) command.Envelope {
	if mock.HandleFunc == nil {
		panic("dispatcherMock.HandleFunc: method is nil but dispatcher.Handle was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Cmd  command.Command
		Opts command.Options
	}{Ctx: ctx, Cmd: cmd, Opts: opts}
	mock.lockHandle.Lock()
	mock.calls.Handle = append(mock.calls.Handle, callInfo)
	mock.lockHandle.Unlock()
	return mock.HandleFunc(ctx, cmd, opts)
}

func (mock *dispatcherMock) HandleCalls() []struct {
	Ctx  context.Context
	Cmd  command.Command
	Opts command.Options
} {
	mock.lockHandle.RLock()
	calls := mock.calls.Handle
	mock.lockHandle.RUnlock()
	return calls
}
