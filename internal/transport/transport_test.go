package transport

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err atomic.Value
}

func (f *fakePinger) PingContext(context.Context) error {
	if err, ok := f.err.Load().(error); ok && err != nil {
		return err
	}
	return nil
}

func TestStatic(t *testing.T) {
	assert.True(t, Static(true).Online(context.Background()))
	assert.False(t, Static(false).Online(context.Background()))
}

func TestPingSignal(t *testing.T) {
	pinger := &fakePinger{}
	signal := NewPingSignal(pinger)

	assert.True(t, signal.Online(context.Background()))

	pinger.err.Store(errors.New("no route to host"))
	assert.False(t, signal.Online(context.Background()))
}

type flippingSignal struct {
	online atomic.Bool
}

func (f *flippingSignal) Online(context.Context) bool {
	return f.online.Load()
}

func TestMonitor_EmitsOnReconnect(t *testing.T) {
	signal := &flippingSignal{}
	monitor := NewMonitor(signal, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := monitor.Watch(ctx)

	// Still offline: no event expected.
	select {
	case <-events:
		t.Fatal("unexpected event while offline")
	case <-time.After(20 * time.Millisecond):
	}

	signal.online.Store(true)
	select {
	case _, ok := <-events:
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected a reconnect event")
	}

	cancel()
	// Channel closes once the monitor winds down.
	for range events {
	}
}

func TestMonitor_NoEventWhileStayingOnline(t *testing.T) {
	signal := &flippingSignal{}
	signal.online.Store(true)
	monitor := NewMonitor(signal, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := monitor.Watch(ctx)

	select {
	case <-events:
		t.Fatal("no transition happened, no event expected")
	case <-time.After(20 * time.Millisecond):
	}
}
