package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "timesheet:status:"
	defaultTTL = 5 * time.Minute

	// generationTTL は値の TTL より十分長く保ちます。
	generationTTL = 8 * 24 * time.Hour
)

// commands は StatusCache が使う Redis コマンドです。*goredis.Client が満たします。
type commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
}

var _ timesheet.StatusCache = (*StatusCache)(nil)

// StatusCache は週次タイムシート状態を Redis に TTL 付きで保持します。
// 値のキーは社員・週ごとの世代番号を含み、Invalidate は世代を 1 つ進めます。
type StatusCache struct {
	client        commands
	ttl           time.Duration
	generationTTL time.Duration
}

// NewStatusCache は StatusCache を生成します。ttl が 0 以下なら既定値を使います。
func NewStatusCache(client commands, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	genTTL := generationTTL
	if genTTL < 2*ttl {
		genTTL = 2 * ttl
	}
	return &StatusCache{client: client, ttl: ttl, generationTTL: genTTL}
}

type cachedStatus struct {
	Status    string `json:"status"`
	WeekStart string `json:"week_start"`
}

// Get は現在の世代とその世代の状態を返します。存在しなければ状態は nil です。
func (c *StatusCache) Get(ctx context.Context, employeeID string, weekStart workcal.Date) (*timesheet.StatusView, int64, error) {
	generation, err := c.client.Get(ctx, GenerationKey(employeeID, weekStart)).Int64()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			return nil, 0, fmt.Errorf("redis: get generation: %w", err)
		}
		generation = 0
	}

	raw, err := c.client.Get(ctx, Key(employeeID, weekStart, generation)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, generation, nil
		}
		return nil, 0, fmt.Errorf("redis: get status: %w", err)
	}

	var cached cachedStatus
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, 0, fmt.Errorf("redis: decode status: %w", err)
	}
	week, err := workcal.ParseDate(cached.WeekStart)
	if err != nil {
		return nil, 0, fmt.Errorf("redis: decode week start: %w", err)
	}
	return &timesheet.StatusView{Status: timesheet.Status(cached.Status), WeekStart: week}, generation, nil
}

// Set は generation の世代に状態を保存します。
func (c *StatusCache) Set(ctx context.Context, employeeID string, generation int64, view *timesheet.StatusView) error {
	payload, err := json.Marshal(cachedStatus{Status: string(view.Status), WeekStart: view.WeekStart.String()})
	if err != nil {
		return fmt.Errorf("redis: encode status: %w", err)
	}
	if err := c.client.Set(ctx, Key(employeeID, view.WeekStart, generation), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set status: %w", err)
	}
	return nil
}

// Invalidate は世代を進めます。古い世代の値は TTL で消えます。
func (c *StatusCache) Invalidate(ctx context.Context, employeeID string, weekStart workcal.Date) error {
	key := GenerationKey(employeeID, weekStart)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: bump generation: %w", err)
	}
	if err := c.client.Expire(ctx, key, c.generationTTL).Err(); err != nil {
		return fmt.Errorf("redis: expire generation: %w", err)
	}
	return nil
}

// Key は社員・週・世代の状態キーです。
func Key(employeeID string, weekStart workcal.Date, generation int64) string {
	return fmt.Sprintf("%s%s:%s:v%d", keyPrefix, employeeID, weekStart, generation)
}

// GenerationKey は社員・週の世代番号のキーです。
func GenerationKey(employeeID string, weekStart workcal.Date) string {
	return keyPrefix + employeeID + ":" + weekStart.String() + ":gen"
}
