package stats

import (
	"context"
	"sync"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

var (
	_ tokenVerifier = &tokenVerifierMock{}
	_ surveyRepo    = &surveyRepoMock{}
	_ exportWriter  = &exportWriterMock{}
)

type tokenVerifierMock struct {
	VerifyFunc func(ctx context.Context, token string) (string, error)

	calls struct {
		Verify []struct {
			Ctx   context.Context
			Token string
		}
	}
	lockVerify sync.RWMutex
}

func (mock *tokenVerifierMock) Verify(ctx context.Context, token string) (string, error) {
	if mock.VerifyFunc == nil {
		panic("tokenVerifierMock.VerifyFunc: method is nil but tokenVerifier.Verify was just called")
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

func (mock *tokenVerifierMock) VerifyCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}

type surveyRepoMock struct {
	ListByUserFunc func(ctx context.Context, userID string) ([]domain.SurveyRecord, error)

	calls struct {
		ListByUser []struct {
			Ctx    context.Context
			UserID string
		}
	}
	lockListByUser sync.RWMutex
}

func (mock *surveyRepoMock) ListByUser(ctx context.Context, userID string) ([]domain.SurveyRecord, error) {
	if mock.ListByUserFunc == nil {
		panic("surveyRepoMock.ListByUserFunc: method is nil but surveyRepo.ListByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID string
	}{Ctx: ctx, UserID: userID}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, callInfo)
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID)
}

func (mock *surveyRepoMock) ListByUserCalls() []struct {
	Ctx    context.Context
	UserID string
} {
	mock.lockListByUser.RLock()
	calls := mock.calls.ListByUser
	mock.lockListByUser.RUnlock()
	return calls
}

type exportWriterMock struct {
	WriteFunc func(ctx context.Context, s *domain.Statistics) (string, error)

	calls struct {
		Write []struct {
			Ctx context.Context
			S   *domain.Statistics
		}
	}
	lockWrite sync.RWMutex
}

func (mock *exportWriterMock) Write(ctx context.Context, s *domain.Statistics) (string, error) {
	if mock.WriteFunc == nil {
		panic("exportWriterMock.WriteFunc: method is nil but exportWriter.Write was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.Statistics
	}{Ctx: ctx, S: s}
	mock.lockWrite.Lock()
	mock.calls.Write = append(mock.calls.Write, callInfo)
	mock.lockWrite.Unlock()
	return mock.WriteFunc(ctx, s)
}

func (mock *exportWriterMock) WriteCalls() []struct {
	Ctx context.Context
	S   *domain.Statistics
} {
	mock.lockWrite.RLock()
	calls := mock.calls.Write
	mock.lockWrite.RUnlock()
	return calls
}
