package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

func TestNewBackend(t *testing.T) {
	orders := NewBackend(nil)
	require.NoError(t, orders.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
		Owner:   types.DefaultOwner,
	}))
	defer orders.Detach()

	start, err := orders.AllocateOrder(context.Background(), types.OrderTags, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), start)
}
