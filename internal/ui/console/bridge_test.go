package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/datasync/keymarker/internal/input"
)

func TestBridge_RequestLineRoundTrip(t *testing.T) {
	b := NewBridge()
	done := make(chan string, 1)

	go func() {
		line, err := b.RequestLine(context.Background(), "Q? ")
		require.NoError(t, err)
		done <- line
	}()

	req := <-b.requests
	require.Equal(t, "Q? ", req.question)
	req.reply <- "answer"

	select {
	case line := <-done:
		require.Equal(t, "answer", line)
	case <-time.After(time.Second):
		t.Fatal("RequestLine did not return")
	}
}

func TestBridge_RequestLineCancelled(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	line, err := b.RequestLine(ctx, "Q? ")
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, line)
}

func TestBridge_RequestLineAfterClose(t *testing.T) {
	b := NewBridge()
	b.Close(nil)

	line, err := b.RequestLine(context.Background(), "Q? ")
	require.NoError(t, err)
	require.Empty(t, line)
}

func TestBridge_CloseEndsKeys(t *testing.T) {
	b := NewBridge()
	b.send(input.Char('x'))
	b.Close(errors.New("terminal lost"))

	ev, ok := <-b.Keys()
	require.True(t, ok)
	require.Equal(t, input.Char('x'), ev)

	_, ok = <-b.Keys()
	require.False(t, ok)
	require.EqualError(t, b.Err(), "terminal lost")

	// sending after close is dropped, not a panic
	b.send(input.Char('y'))
}
