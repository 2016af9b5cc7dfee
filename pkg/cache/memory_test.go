package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	type payload struct {
		Tier  string  `json:"tier"`
		Score float64 `json:"score"`
	}

	if err := m.Set(ctx, "k", payload{Tier: "high", Score: 0.7}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got payload
	if err := m.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Tier != "high" || got.Score != 0.7 {
		t.Fatalf("got %+v", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()

	var dest string
	if err := m.Get(context.Background(), "absent", &dest); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	var dest string
	if err := m.Get(ctx, "k", &dest); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "a", 1, time.Minute)
	_ = m.Set(ctx, "b", 2, time.Minute)
	if err := m.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var dest int
	if err := m.Get(ctx, "a", &dest); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss after delete", err)
	}
}
