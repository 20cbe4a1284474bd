package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodAddr = "0x1234567890abcdef1234567890abcdef12345678"

func TestConnect_ValidatesAddress(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	l, err := svc.Connect(ctx, "p1", goodAddr)
	require.NoError(t, err)
	assert.Equal(t, goodAddr, l.Address)

	for _, bad := range []string{"", "nope", "0x123", "1234567890abcdef1234567890abcdef12345678"} {
		_, err := svc.Connect(ctx, "p1", bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", bad)
	}
}

func TestConnect_ReplacesPreviousLink(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Connect(ctx, "p1", goodAddr)
	require.NoError(t, err)

	other := "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	_, err = svc.Connect(ctx, "p1", other)
	require.NoError(t, err)

	l, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, other, l.Address)
}

func TestDisconnect(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Connect(ctx, "p1", goodAddr)
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(ctx, "p1"))

	_, err = svc.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, svc.Disconnect(ctx, "p1"), ErrNotConnected)
}

func TestWithdrawDeposit_AreStubs(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	// unconnected player gets the connection error first
	assert.ErrorIs(t, svc.Withdraw(ctx, "p1", "1"), ErrNotConnected)

	_, err := svc.Connect(ctx, "p1", goodAddr)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Withdraw(ctx, "p1", "1"), ErrNotSupported)
	assert.ErrorIs(t, svc.Deposit(ctx, "p1", "1"), ErrNotSupported)
}
