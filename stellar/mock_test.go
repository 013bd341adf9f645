package stellar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockServiceVerify(t *testing.T) {
	mock := NewMockService()

	result, err := mock.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, uint(mockLedger), result.Ledger)
	assert.NotEmpty(t, result.Raw)

	result, err = mock.Verify(context.Background(), "bad-hash")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Zero(t, result.Ledger)
}
