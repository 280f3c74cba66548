package guardrail

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"carelink/internal/platform/redis"
	id "carelink/pkg/domain"
)

// verdictTTL bounds how stale a cached verdict can get even if invalidation
// is missed.
const verdictTTL = 5 * time.Minute

// Cache keeps guardrail verdicts in Redis. Verdicts are tiny and hot: every
// activity record entry hits the guardrail, while plan transitions that
// change the answer are rare. Entries are invalidated per client whenever a
// plan is activated or archived.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

func verdictKey(userID id.UserID, goalID id.GoalID, date time.Time) string {
	return fmt.Sprintf("guardrail:%s:%s:%s", userID, goalID, date.Format("2006-01-02"))
}

// Get returns the cached verdict and whether one was present.
func (c *Cache) Get(ctx context.Context, userID id.UserID, goalID id.GoalID, date time.Time) (bool, bool, error) {
	value, err := c.client.Client.Get(ctx, verdictKey(userID, goalID, date)).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, false, nil
		}
		return false, false, fmt.Errorf("get guardrail verdict: %w", err)
	}
	return value == "1", true, nil
}

func (c *Cache) Set(ctx context.Context, userID id.UserID, goalID id.GoalID, date time.Time, permitted bool) error {
	value := "0"
	if permitted {
		value = "1"
	}
	if err := c.client.Client.Set(ctx, verdictKey(userID, goalID, date), value, verdictTTL).Err(); err != nil {
		return fmt.Errorf("set guardrail verdict: %w", err)
	}
	return nil
}

// InvalidateUser drops every cached verdict for the client. Called on plan
// activation and archival.
func (c *Cache) InvalidateUser(ctx context.Context, userID id.UserID) error {
	pattern := fmt.Sprintf("guardrail:%s:*", userID)
	iter := c.client.Client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan guardrail verdicts: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate guardrail verdicts: %w", err)
	}
	return nil
}
