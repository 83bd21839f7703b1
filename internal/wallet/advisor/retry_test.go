package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

type mockAdvisor struct {
	mock.Mock
}

func (m *mockAdvisor) GetAdvice(ctx context.Context, txs []entity.Transaction, query string) (string, error) {
	args := m.Called(ctx, txs, query)
	return args.String(0), args.Error(1)
}

func (m *mockAdvisor) GetSpendingTips(ctx context.Context, txs []entity.Transaction) ([]string, error) {
	args := m.Called(ctx, txs)
	tips, _ := args.Get(0).([]string)
	return tips, args.Error(1)
}

func TestRetrying_RecoversAfterFailures(t *testing.T) {
	next := new(mockAdvisor)
	next.On("GetAdvice", mock.Anything, mock.Anything, "q").Return("", errors.New("boom")).Twice()
	next.On("GetAdvice", mock.Anything, mock.Anything, "q").Return("answer", nil).Once()

	r := NewRetrying(next, RetryConfig{MaxRetries: 2, BaseBackoff: time.Millisecond})

	got, err := r.GetAdvice(context.Background(), nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	next.AssertNumberOfCalls(t, "GetAdvice", 3)
}

func TestRetrying_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	next := new(mockAdvisor)
	next.On("GetSpendingTips", mock.Anything, mock.Anything).Return(nil, boom)

	r := NewRetrying(next, RetryConfig{MaxRetries: 1, BaseBackoff: time.Millisecond})

	tips, err := r.GetSpendingTips(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, tips)
	next.AssertNumberOfCalls(t, "GetSpendingTips", 2)
}

func TestRetrying_NoRetriesByDefault(t *testing.T) {
	next := new(mockAdvisor)
	next.On("GetAdvice", mock.Anything, mock.Anything, "q").Return("", errors.New("boom"))

	r := NewRetrying(next, RetryConfig{MaxRetries: -3})

	_, err := r.GetAdvice(context.Background(), nil, "q")
	require.Error(t, err)
	next.AssertNumberOfCalls(t, "GetAdvice", 1)
}

func TestRetrying_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	next := new(mockAdvisor)
	next.On("GetAdvice", mock.Anything, mock.Anything, "q").
		Run(func(mock.Arguments) { cancel() }).
		Return("", errors.New("boom"))

	r := NewRetrying(next, RetryConfig{MaxRetries: 5, BaseBackoff: time.Hour})

	_, err := r.GetAdvice(ctx, nil, "q")
	require.Error(t, err)
	next.AssertNumberOfCalls(t, "GetAdvice", 1)
}
