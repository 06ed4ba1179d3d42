package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avelines/remit/internal/transfer"
)

func newService(repo transfer.Repository, policy transfer.ClearancePolicy, now time.Time) *transfer.Service {
	factory := transfer.NewFactory(neverFlag, transfer.Windows{Standard: 72 * time.Hour},
		transfer.WithClock(func() time.Time { return now }))

	return transfer.NewService(repo, factory, policy,
		transfer.WithServiceClock(func() time.Time { return now }))
}

func TestService_Create(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    transfer.CreateParams
		setupMock func(m *transfer.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams(),
			setupMock: func(m *transfer.MockRepository) {
				m.EXPECT().
					CreateTransfer(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "InvalidAmountNeverTouchesRepo",
			params: func() transfer.CreateParams {
				p := validParams()
				p.SendAmount = -10
				return p
			}(),
			wantErr: transfer.ErrInvalidAmount,
		},
		{
			name:   "RepoError",
			params: validParams(),
			setupMock: func(m *transfer.MockRepository) {
				m.EXPECT().
					CreateTransfer(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transfer.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := newService(repo, transfer.AutoGrant{}, now)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, transfer.StatusSubmitted, got.Status)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Advance(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("PersistsNextStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stored := newTestTransfer(t, false)

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), stored.ID).
			Return(stored, nil)
		repo.EXPECT().
			AdvanceTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, next *transfer.Transfer) error {
				assert.Equal(t, transfer.StatusConverting, next.Status)
				return nil
			})

		svc := newService(repo, transfer.AutoGrant{}, now)

		got, err := svc.Advance(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, transfer.StatusConverting, got.Status)

		at, ok := got.EnteredAt(transfer.StatusConverting)
		require.True(t, ok)
		assert.Equal(t, now, at)
	})

	t.Run("TerminalIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stored := newTestTransfer(t, false)
		stored.Status = transfer.StatusFundsArrived
		stored.StatusTimestamps[transfer.StatusFundsArrived] = stored.CreatedAt

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), stored.ID).
			Return(stored, nil)

		svc := newService(repo, transfer.AutoGrant{}, now)

		got, err := svc.Advance(context.Background(), stored.ID)
		assert.ErrorIs(t, err, transfer.ErrAlreadyTerminal)
		assert.Same(t, stored, got)
	})

	t.Run("AutoGrantReleasesFlagged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stored := newTestTransfer(t, true)
		stored.Status = transfer.StatusFlaggedAwaitingClearance
		stored.StatusTimestamps[transfer.StatusFlaggedAwaitingClearance] = stored.CreatedAt

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), stored.ID).
			Return(stored, nil)
		repo.EXPECT().
			AdvanceTransfer(gomock.Any(), gomock.Any()).
			Return(nil)

		svc := newService(repo, transfer.AutoGrant{}, now)

		got, err := svc.Advance(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, transfer.StatusClearanceGranted, got.Status)
	})

	t.Run("ManualReviewHolds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stored := newTestTransfer(t, true)
		stored.Status = transfer.StatusFlaggedAwaitingClearance
		stored.StatusTimestamps[transfer.StatusFlaggedAwaitingClearance] = stored.CreatedAt

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), stored.ID).
			Return(stored, nil)

		svc := newService(repo, transfer.ManualReview{}, now)

		got, err := svc.Advance(context.Background(), stored.ID)
		assert.ErrorIs(t, err, transfer.ErrClearanceHeld)
		assert.Equal(t, transfer.StatusFlaggedAwaitingClearance, got.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), id).
			Return(nil, transfer.ErrNotFound)

		svc := newService(repo, transfer.AutoGrant{}, now)

		_, err := svc.Advance(context.Background(), id)
		assert.ErrorIs(t, err, transfer.ErrNotFound)
	})
}

func TestService_GrantClearance(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ReleasesHeldTransfer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stored := newTestTransfer(t, true)
		stored.Status = transfer.StatusFlaggedAwaitingClearance
		stored.StatusTimestamps[transfer.StatusFlaggedAwaitingClearance] = stored.CreatedAt

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), stored.ID).
			Return(stored, nil)
		repo.EXPECT().
			AdvanceTransfer(gomock.Any(), gomock.Any()).
			Return(nil)

		// Manual policy: the reviewer action bypasses the policy.
		svc := newService(repo, transfer.ManualReview{}, now)

		got, err := svc.GrantClearance(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, transfer.StatusClearanceGranted, got.Status)
	})

	t.Run("RejectsWrongStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stored := newTestTransfer(t, false)

		repo := transfer.NewMockRepository(ctrl)
		repo.EXPECT().
			GetTransfer(gomock.Any(), stored.ID).
			Return(stored, nil)

		svc := newService(repo, transfer.ManualReview{}, now)

		_, err := svc.GrantClearance(context.Background(), stored.ID)
		assert.ErrorIs(t, err, transfer.ErrInvalidStatus)
	})
}

func TestService_RejectClearance(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := newTestTransfer(t, true)
	stored.Status = transfer.StatusFlaggedAwaitingClearance
	stored.StatusTimestamps[transfer.StatusFlaggedAwaitingClearance] = stored.CreatedAt

	repo := transfer.NewMockRepository(ctrl)
	repo.EXPECT().
		GetTransfer(gomock.Any(), stored.ID).
		Return(stored, nil)
	repo.EXPECT().
		AdvanceTransfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, next *transfer.Transfer) error {
			assert.Equal(t, transfer.StatusRejected, next.Status)
			return nil
		})

	svc := newService(repo, transfer.ManualReview{}, now)

	got, err := svc.RejectClearance(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.True(t, got.Status.Terminal())
}

func TestService_MarkReviewed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transfer.NewMockRepository(ctrl)
	repo.EXPECT().
		SetReviewed(gomock.Any(), id, true).
		Return(nil)

	svc := newService(repo, transfer.AutoGrant{}, time.Now())

	err := svc.MarkReviewed(context.Background(), id, true)
	assert.NoError(t, err)
}
