package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestPool_ReusesConnectionPerTarget(t *testing.T) {
	p := NewPool(WithKeepalive(30 * time.Second))
	defer p.Close()

	a, err := p.GetConnection("passthrough:///ledger-a")
	require.NoError(t, err)
	b, err := p.GetConnection("passthrough:///ledger-a")
	require.NoError(t, err)
	c, err := p.GetConnection("passthrough:///ledger-b")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestPool_CloseDropsConnections(t *testing.T) {
	p := NewPool()
	a, err := p.GetConnection("passthrough:///ledger")
	require.NoError(t, err)
	require.NoError(t, p.Close())

	b, err := p.GetConnection("passthrough:///ledger")
	require.NoError(t, err)
	defer p.Close()
	assert.NotSame(t, a, b)
}

func TestLoggingInterceptor_AttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := NewPool()
	defer p.Close()
	cc, err := p.GetConnection("passthrough:///ledger")
	require.NoError(t, err)

	var sent string
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, ok := metadata.FromOutgoingContext(ctx)
		require.True(t, ok)
		ids := md.Get(RequestIDKey)
		require.Len(t, ids, 1)
		sent = ids[0]
		return nil
	}

	err = LoggingInterceptor(log)(context.Background(), "/ledger.v1.AccountLedger/Deposit", nil, nil, cc, invoker)
	require.NoError(t, err)

	_, err = uuid.Parse(sent)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), sent)
	assert.Contains(t, buf.String(), "/ledger.v1.AccountLedger/Deposit")
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, "abc"))
	assert.Equal(t, "abc", RequestID(ctx))
}
