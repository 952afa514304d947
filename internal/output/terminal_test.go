package output

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/mobil-koeln/scrollfeed/internal/testutil"
)

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	testutil.AssertNil(t, ctx.Err())
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}
}

func TestSignalContext_Interrupt(t *testing.T) {
	ctx, stop := SignalContext(context.Background())
	defer stop()

	testutil.AssertNil(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}
}

func TestSignalContext_Stop(t *testing.T) {
	ctx, stop := SignalContext(context.Background())
	stop()

	testutil.AssertErrorIs(t, ctx.Err(), context.Canceled)
}
