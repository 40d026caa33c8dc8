package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSettingsWarmer_WarmsAtStartupAndOnInterval(t *testing.T) {
	var calls atomic.Int32
	warmer := NewSettingsWarmer(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond, zap.NewNop())

	if err := warmer.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer warmer.Stop()

	deadline := time.After(time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("warm ran %d times, want at least 3", calls.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSettingsWarmer_StopHaltsWarming(t *testing.T) {
	var calls atomic.Int32
	warmer := NewSettingsWarmer(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 5*time.Millisecond, zap.NewNop())

	if err := warmer.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := warmer.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != settled {
		t.Errorf("warm kept running after Stop: %d -> %d", settled, calls.Load())
	}
}

func TestManager_LifecycleAndDoubleStart(t *testing.T) {
	m := NewManager(zap.NewNop())
	warmer := NewSettingsWarmer(func(ctx context.Context) error { return nil }, time.Minute, zap.NewNop())
	m.Register(warmer)

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if !m.IsRunning() {
		t.Error("IsRunning() = false after StartAll")
	}
	if err := m.StartAll(context.Background()); err == nil {
		t.Error("second StartAll() should fail")
	}

	if err := m.StopAll(); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}
	if m.IsRunning() {
		t.Error("IsRunning() = true after StopAll")
	}
}
