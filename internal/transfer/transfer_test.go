package transfer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelines/remit/internal/transfer"
)

func TestTransfer_Clone(t *testing.T) {
	orig := newTestTransfer(t, false)
	updated := orig.CreatedAt.Add(time.Minute)
	orig.UpdatedAt = &updated

	clone := orig.Clone()

	require.Equal(t, orig, clone)
	assert.NotSame(t, orig, clone)

	t.Run("DetachedTimestampMap", func(t *testing.T) {
		clone.StatusTimestamps[transfer.StatusInTransit] = updated

		assert.NotContains(t, orig.StatusTimestamps, transfer.StatusInTransit)
	})

	t.Run("DetachedUpdatedAt", func(t *testing.T) {
		require.NotNil(t, clone.UpdatedAt)
		assert.NotSame(t, orig.UpdatedAt, clone.UpdatedAt)

		*clone.UpdatedAt = clone.UpdatedAt.Add(time.Hour)

		assert.Equal(t, updated, *orig.UpdatedAt)
	})
}

func TestTransfer_Clone_NilUpdatedAt(t *testing.T) {
	orig := newTestTransfer(t, false)

	clone := orig.Clone()

	assert.Nil(t, clone.UpdatedAt)
}
