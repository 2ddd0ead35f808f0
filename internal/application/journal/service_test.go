package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ctf-hub/ctfbot/internal/domain/journal"
	journalMocks "github.com/ctf-hub/ctfbot/internal/domain/journal/mocks"
)

func TestService_Record(t *testing.T) {
	t.Run("async write reaches repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := journalMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		entry := journal.NewEntry("ev-1", "oc_1", "ou_alice", "ls", nil)
		repo.EXPECT().Create(gomock.Any(), entry).Return(nil)

		service.Record(context.Background(), entry)
		service.Wait()
	})

	t.Run("failure is logged not returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := journalMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		entry := journal.NewEntry("ev-1", "oc_1", "", "ls", nil)
		repo.EXPECT().Create(gomock.Any(), entry).Return(errors.New("db down"))

		service.Record(context.Background(), entry)
		service.Wait()
	})

	t.Run("survives caller cancellation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := journalMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		entry := journal.NewEntry("ev-1", "oc_1", "", "ls", nil)
		repo.EXPECT().Create(gomock.Any(), entry).
			DoAndReturn(func(ctx context.Context, _ *journal.Entry) error {
				return ctx.Err()
			})

		cancel()
		service.Record(ctx, entry)
		service.Wait()
	})
}

func TestService_RecordSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := journalMocks.NewMockRepository(ctrl)
	service := NewService(repo, zerolog.Nop())

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := service.RecordSync(context.Background(), journal.NewEntry("ev-1", "oc_1", "", "ls", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestService_List(t *testing.T) {
	t.Run("clamps limit and maps outcome", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := journalMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		chatID := "oc_1"
		outcome := "FAILED"
		repo.EXPECT().
			List(gomock.Any(), gomock.Any(), 200, 0).
			DoAndReturn(func(_ context.Context, f journal.Filter, _, _ int) ([]*journal.Entry, error) {
				require.NotNil(t, f.ChatID)
				assert.Equal(t, "oc_1", *f.ChatID)
				require.NotNil(t, f.Outcome)
				assert.Equal(t, journal.OutcomeFailed, *f.Outcome)
				return []*journal.Entry{{Command: "nc"}}, nil
			})

		entries, err := service.List(context.Background(), ListParams{ChatID: &chatID, Outcome: &outcome, Limit: 1000, Offset: -1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("default limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := journalMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		repo.EXPECT().List(gomock.Any(), journal.Filter{}, 50, 0).Return(nil, nil)

		_, err := service.List(context.Background(), ListParams{})
		require.NoError(t, err)
	})
}
