package reminder

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tgienger/gtd/internal/logging"
)

const DefaultKeyPrefix = "gtd:reminders"

// Redis stores reminders in a sorted set scored by fire time. Pollers claim
// due entries with ZREM, so each reminder is handed out once even with
// several pollers sharing the set.
type Redis struct {
	client     redis.UniversalClient
	queueKey   string
	payloadKey string
	l          logging.Logger
}

func NewRedis(client redis.UniversalClient, prefix string, logger logging.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{
		client:     client,
		queueKey:   prefix,
		payloadKey: prefix + ":titles",
		l:          logger,
	}
}

func (r *Redis) Schedule(ctx context.Context, rem Reminder) error {
	member := rem.TaskID.String()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, r.queueKey, redis.Z{Score: float64(rem.FireAt.UnixMilli()), Member: member})
		pipe.HSet(ctx, r.payloadKey, member, rem.Title)
		return nil
	})
	return err
}

func (r *Redis) Cancel(ctx context.Context, taskID uuid.UUID) error {
	member := taskID.String()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, r.queueKey, member)
		pipe.HDel(ctx, r.payloadKey, member)
		return nil
	})
	return err
}

// Poll claims every reminder due at or before now
func (r *Redis) Poll(ctx context.Context, now time.Time) ([]Reminder, error) {
	due, err := r.client.ZRangeByScoreWithScores(ctx, r.queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	var claimed []Reminder
	for _, z := range due {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		n, err := r.client.ZRem(ctx, r.queueKey, member).Result()
		if err != nil {
			return claimed, err
		}
		if n == 0 {
			// another poller got it first
			continue
		}

		title, err := r.client.HGet(ctx, r.payloadKey, member).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return claimed, err
		}
		if err := r.client.HDel(ctx, r.payloadKey, member).Err(); err != nil {
			r.l.Warn("failed to remove reminder payload", "member", member, "error", err)
		}

		id, err := uuid.Parse(member)
		if err != nil {
			r.l.Warn("dropping reminder with bad id", "member", member, "error", err)
			continue
		}
		claimed = append(claimed, Reminder{
			TaskID: id,
			Title:  title,
			FireAt: time.UnixMilli(int64(z.Score)),
		})
	}
	return claimed, nil
}

// Run polls every interval and hands due reminders to handler until ctx is
// done
func (r *Redis) Run(ctx context.Context, interval time.Duration, handler Handler) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			due, err := r.Poll(ctx, now)
			if err != nil {
				r.l.Error("failed reminder poll", "error", err)
			}
			for _, rem := range due {
				handler(rem)
			}
		}
	}
}
