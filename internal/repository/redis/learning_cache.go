package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key patterns for live AI state.
func learningKey(profile string) string { return "ai:" + profile + ":learning" }
func statusKey(battleID string) string  { return "battle:" + battleID + ":status" }

// SetLearningData stores a profile's in-progress learning data JSON.
func (c *Client) SetLearningData(ctx context.Context, profile string, data json.RawMessage) error {
	return c.rdb.Set(ctx, learningKey(profile), []byte(data), 0).Err()
}

// GetLearningData retrieves a profile's learning data, or nil when absent.
func (c *Client) GetLearningData(ctx context.Context, profile string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, learningKey(profile)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get learning data: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetBattleStatus stores the live status JSON for a running battle.
func (c *Client) SetBattleStatus(ctx context.Context, battleID string, status json.RawMessage) error {
	return c.rdb.Set(ctx, statusKey(battleID), []byte(status), 0).Err()
}

// GetBattleStatus retrieves the live status for a battle, or nil when absent.
func (c *Client) GetBattleStatus(ctx context.Context, battleID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, statusKey(battleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get battle status: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteBattleData removes all Redis data for a battle (on battle end).
func (c *Client) DeleteBattleData(ctx context.Context, battleID string) error {
	return c.rdb.Del(ctx, statusKey(battleID)).Err()
}
