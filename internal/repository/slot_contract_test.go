package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "cleanShopCart"

// testSlotContract checks the behaviour every backend must share.
func testSlotContract(t *testing.T, slot Slot) {
	t.Helper()
	ctx := context.Background()

	t.Run("load missing key", func(t *testing.T) {
		data, err := slot.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrSlotNotFound)
		assert.Nil(t, data)
	})

	t.Run("save then load", func(t *testing.T) {
		payload := []byte(`[{"name":"Shirt","price":1000,"qty":1,"image":"img1"}]`)
		require.NoError(t, slot.Save(ctx, testKey, payload))

		data, err := slot.Load(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("save replaces whole value", func(t *testing.T) {
		require.NoError(t, slot.Save(ctx, testKey, []byte(`[{"name":"Hat","price":500,"qty":3,"image":""}]`)))
		require.NoError(t, slot.Save(ctx, testKey, []byte(`[]`)))

		data, err := slot.Load(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, slot.Save(ctx, testKey, []byte(`[]`)))
		require.NoError(t, slot.Delete(ctx, testKey))

		_, err := slot.Load(ctx, testKey)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("delete missing key", func(t *testing.T) {
		assert.NoError(t, slot.Delete(ctx, "never-written"))
	})
}
