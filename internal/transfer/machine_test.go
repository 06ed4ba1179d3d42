package transfer_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelines/remit/internal/transfer"
)

func newTestTransfer(t *testing.T, flagged bool) *transfer.Transfer {
	t.Helper()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	return &transfer.Transfer{
		ID:           uuid.New(),
		AccountID:    uuid.New(),
		Status:       transfer.StatusSubmitted,
		RequiresAuth: flagged,
		StatusTimestamps: map[transfer.Status]time.Time{
			transfer.StatusSubmitted: now,
		},
		CreatedAt: now,
	}
}

func TestNext(t *testing.T) {
	type testCase struct {
		name    string
		from    transfer.Status
		flagged bool
		want    transfer.Status
		wantErr error
	}

	tests := []testCase{
		{name: "SubmittedToConverting", from: transfer.StatusSubmitted, want: transfer.StatusConverting},
		{name: "SubmittedToConvertingFlagged", from: transfer.StatusSubmitted, flagged: true, want: transfer.StatusConverting},
		{name: "ConvertingSkipsClearance", from: transfer.StatusConverting, want: transfer.StatusInTransit},
		{name: "ConvertingDetoursWhenFlagged", from: transfer.StatusConverting, flagged: true, want: transfer.StatusFlaggedAwaitingClearance},
		{name: "FlaggedToGranted", from: transfer.StatusFlaggedAwaitingClearance, flagged: true, want: transfer.StatusClearanceGranted},
		{name: "GrantedToInTransit", from: transfer.StatusClearanceGranted, flagged: true, want: transfer.StatusInTransit},
		{name: "InTransitToArrived", from: transfer.StatusInTransit, want: transfer.StatusFundsArrived},
		{name: "PendingDepositToArrived", from: transfer.StatusPendingDeposit, want: transfer.StatusFundsArrived},
		{name: "ArrivedIsTerminal", from: transfer.StatusFundsArrived, wantErr: transfer.ErrAlreadyTerminal},
		{name: "RejectedIsTerminal", from: transfer.StatusRejected, wantErr: transfer.ErrAlreadyTerminal},
		{name: "UnknownStatus", from: transfer.Status("lost"), wantErr: transfer.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transfer.Next(tt.from, tt.flagged)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdvance_UnflaggedPath(t *testing.T) {
	tr := newTestTransfer(t, false)

	want := []transfer.Status{
		transfer.StatusConverting,
		transfer.StatusInTransit,
		transfer.StatusFundsArrived,
	}

	now := tr.CreatedAt
	for _, expected := range want {
		now = now.Add(time.Second)

		next, err := transfer.Advance(tr, now)
		require.NoError(t, err)
		assert.Equal(t, expected, next.Status)

		tr = next
	}

	// The full path visited four statuses, never the clearance pair.
	assert.Len(t, tr.StatusTimestamps, 4)

	_, visited := tr.EnteredAt(transfer.StatusFlaggedAwaitingClearance)
	assert.False(t, visited)

	_, visited = tr.EnteredAt(transfer.StatusClearanceGranted)
	assert.False(t, visited)
}

func TestAdvance_FlaggedPath(t *testing.T) {
	tr := newTestTransfer(t, true)

	want := []transfer.Status{
		transfer.StatusConverting,
		transfer.StatusFlaggedAwaitingClearance,
		transfer.StatusClearanceGranted,
		transfer.StatusInTransit,
		transfer.StatusFundsArrived,
	}

	now := tr.CreatedAt
	for _, expected := range want {
		now = now.Add(time.Second)

		next, err := transfer.Advance(tr, now)
		require.NoError(t, err)
		assert.Equal(t, expected, next.Status)

		tr = next
	}

	assert.Len(t, tr.StatusTimestamps, 6)
}

func TestAdvance_MonotonicTimestamps(t *testing.T) {
	tr := newTestTransfer(t, true)

	order := []transfer.Status{transfer.StatusSubmitted}

	now := tr.CreatedAt
	for !tr.Status.Terminal() {
		now = now.Add(750 * time.Millisecond)

		next, err := transfer.Advance(tr, now)
		require.NoError(t, err)

		order = append(order, next.Status)
		tr = next
	}

	prev, ok := tr.EnteredAt(order[0])
	require.True(t, ok)

	for _, s := range order[1:] {
		at, ok := tr.EnteredAt(s)
		require.True(t, ok, "missing timestamp for %s", s)
		assert.False(t, at.Before(prev), "timestamp for %s moved backwards", s)

		prev = at
	}
}

func TestAdvance_TerminalIsNoOp(t *testing.T) {
	tr := newTestTransfer(t, false)
	tr.Status = transfer.StatusFundsArrived
	tr.StatusTimestamps[transfer.StatusFundsArrived] = tr.CreatedAt.Add(time.Minute)

	next, err := transfer.Advance(tr, tr.CreatedAt.Add(time.Hour))

	assert.ErrorIs(t, err, transfer.ErrAlreadyTerminal)
	assert.Nil(t, next)
	assert.Len(t, tr.StatusTimestamps, 2)
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	tr := newTestTransfer(t, false)

	next, err := transfer.Advance(tr, tr.CreatedAt.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, transfer.StatusSubmitted, tr.Status)
	assert.Len(t, tr.StatusTimestamps, 1)
	assert.Equal(t, transfer.StatusConverting, next.Status)
}

func TestAdvance_TimestampRecordingIsIdempotent(t *testing.T) {
	tr := newTestTransfer(t, false)

	first, err := transfer.Advance(tr, tr.CreatedAt.Add(time.Second))
	require.NoError(t, err)

	recorded, ok := first.EnteredAt(transfer.StatusConverting)
	require.True(t, ok)

	// Re-advance from the original value: the timestamp already recorded for
	// CONVERTING must survive a later re-entry.
	replay := first.Clone()
	replay.Status = transfer.StatusSubmitted

	second, err := transfer.Advance(replay, tr.CreatedAt.Add(time.Hour))
	require.NoError(t, err)

	at, ok := second.EnteredAt(transfer.StatusConverting)
	require.True(t, ok)
	assert.Equal(t, recorded, at)
}

func TestPath(t *testing.T) {
	t.Run("Unflagged", func(t *testing.T) {
		tr := newTestTransfer(t, false)

		assert.Equal(t, []transfer.Status{
			transfer.StatusSubmitted,
			transfer.StatusConverting,
			transfer.StatusInTransit,
			transfer.StatusFundsArrived,
		}, transfer.Path(tr))
	})

	t.Run("Flagged", func(t *testing.T) {
		tr := newTestTransfer(t, true)

		assert.Equal(t, []transfer.Status{
			transfer.StatusSubmitted,
			transfer.StatusConverting,
			transfer.StatusFlaggedAwaitingClearance,
			transfer.StatusClearanceGranted,
			transfer.StatusInTransit,
			transfer.StatusFundsArrived,
		}, transfer.Path(tr))
	})

	t.Run("Credit", func(t *testing.T) {
		tr := newTestTransfer(t, false)
		tr.Type = transfer.TypeCredit

		assert.Equal(t, []transfer.Status{
			transfer.StatusPendingDeposit,
			transfer.StatusFundsArrived,
		}, transfer.Path(tr))
	})

	t.Run("Rejected", func(t *testing.T) {
		tr := newTestTransfer(t, true)
		tr.Status = transfer.StatusRejected

		assert.Equal(t, []transfer.Status{
			transfer.StatusSubmitted,
			transfer.StatusConverting,
			transfer.StatusFlaggedAwaitingClearance,
			transfer.StatusRejected,
		}, transfer.Path(tr))
	})
}

func TestReject(t *testing.T) {
	t.Run("FromFlagged", func(t *testing.T) {
		tr := newTestTransfer(t, true)
		tr.Status = transfer.StatusFlaggedAwaitingClearance

		at := tr.CreatedAt.Add(time.Minute)

		next, err := transfer.Reject(tr, at)
		require.NoError(t, err)

		assert.Equal(t, transfer.StatusRejected, next.Status)
		assert.True(t, next.Status.Terminal())

		recorded, ok := next.EnteredAt(transfer.StatusRejected)
		require.True(t, ok)
		assert.Equal(t, at, recorded)
	})

	t.Run("FromUnflaggedStatus", func(t *testing.T) {
		tr := newTestTransfer(t, true)
		tr.Status = transfer.StatusInTransit

		_, err := transfer.Reject(tr, tr.CreatedAt)
		assert.ErrorIs(t, err, transfer.ErrInvalidStatus)
	})

	t.Run("FromTerminal", func(t *testing.T) {
		tr := newTestTransfer(t, true)
		tr.Status = transfer.StatusRejected

		_, err := transfer.Reject(tr, tr.CreatedAt)
		assert.ErrorIs(t, err, transfer.ErrAlreadyTerminal)
	})
}
