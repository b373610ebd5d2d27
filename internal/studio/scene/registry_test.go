package scene

import (
	"context"
	"testing"

	"sketch-studio/internal/studio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, reg.Add(ctx, &models.SceneObject{ID: id}))
	}

	objs, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 3)
	assert.Equal(t, "a", objs[0].ID)
	assert.Equal(t, "c", objs[2].ID)

	n, err := reg.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()
	require.NoError(t, reg.Add(ctx, &models.SceneObject{ID: "a"}))

	snapshot, err := reg.List(ctx)
	require.NoError(t, err)

	require.NoError(t, reg.Clear(ctx))
	n, err := reg.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	// Ранее выданный срез не меняется после очистки.
	assert.Len(t, snapshot, 1)
}
