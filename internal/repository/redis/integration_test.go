//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kwestra/hexfront/internal/testutil"
)

func TestLearningDataRoundTrip(t *testing.T) {
	rdb := testutil.SetupRedis(t)
	testutil.CleanupRedis(t, rdb)
	cache := NewClientFromPool(rdb)
	ctx := context.Background()

	data := json.RawMessage(`{"riskTolerance":0.65,"adaptationRate":0.3}`)
	if err := cache.SetLearningData(ctx, "hard-blue", data); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.GetLearningData(ctx, "hard-blue")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("round trip mismatch: %s", got)
	}

	missing, err := cache.GetLearningData(ctx, "nobody")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("absent profile should return nil, nil")
	}
}

func TestBattleStatusLifecycle(t *testing.T) {
	rdb := testutil.SetupRedis(t)
	testutil.CleanupRedis(t, rdb)
	cache := NewClientFromPool(rdb)
	ctx := context.Background()

	status := json.RawMessage(`{"turn":5,"blueHp":40,"redHp":33}`)
	if err := cache.SetBattleStatus(ctx, "battle-1", status); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.GetBattleStatus(ctx, "battle-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(status) {
		t.Errorf("status mismatch: %s", got)
	}

	if err := cache.DeleteBattleData(ctx, "battle-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := cache.GetBattleStatus(ctx, "battle-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Error("status should be gone after delete")
	}
}
