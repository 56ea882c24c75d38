package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"mangosteen-ledger/app/server/constants"
	"strconv"
	"time"
)

const JobKindWelcome = "welcome"

// Job 是放进队列的一封待发邮件，由 worker 取出后投递
type Job struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	Attempts   int    `json:"attempts"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix second
}

type Queue struct {
	rdb *redis.Client
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// EnqueueWelcome 只负责入队，不等待投递结果
func (q *Queue) EnqueueWelcome(ctx context.Context, userID uint, email string) (*Job, error) {
	job := &Job{
		ID:         uuid.NewString(),
		Kind:       JobKindWelcome,
		UserID:     userID,
		Email:      email,
		EnqueuedAt: time.Now().Unix(),
	}
	if err := q.Push(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (q *Queue) Push(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err = q.rdb.RPush(ctx, constants.MailQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Pop 阻塞等待下一个任务，超时返回 nil, nil
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.rdb.BLPop(ctx, timeout, constants.MailQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("pop job: %w", err)
	}

	// res[0] 是 key ，res[1] 是内容
	var job Job
	if err = json.Unmarshal([]byte(res[1]), &job); err != nil {
		// 无法解析的任务直接丢进死信，避免反复出现
		err = fmt.Errorf("unmarshal job: %w", err)
		if buryErr := q.rdb.RPush(ctx, constants.MailDeadKey, res[1]).Err(); buryErr != nil {
			err = errors.Join(err, fmt.Errorf("bury bad payload %q: %w", res[1], buryErr))
		}
		return nil, err
	}
	return &job, nil
}

// Retry 把任务放进延迟集合，到 at 之后由 PromoteDue 放回队列
func (q *Queue) Retry(ctx context.Context, job *Job, at time.Time) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err = q.rdb.ZAdd(ctx, constants.MailRetryKey, redis.Z{
		Score:  float64(at.Unix()),
		Member: payload,
	}).Err(); err != nil {
		return fmt.Errorf("schedule retry: %w", err)
	}
	return nil
}

func (q *Queue) PromoteDue(ctx context.Context, now time.Time) (int, error) {
	due, err := q.rdb.ZRangeByScore(ctx, constants.MailRetryKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list due retries: %w", err)
	}

	promoted := 0
	for _, payload := range due {
		// 谁删除成功谁负责放回，多个 worker 同时运行时不会重复
		removed, err := q.rdb.ZRem(ctx, constants.MailRetryKey, payload).Result()
		if err != nil {
			return promoted, fmt.Errorf("claim retry: %w", err)
		}
		if removed == 0 {
			continue
		}
		if err = q.rdb.RPush(ctx, constants.MailQueueKey, payload).Err(); err != nil {
			return promoted, fmt.Errorf("requeue retry: %w", err)
		}
		promoted++
	}
	return promoted, nil
}

func (q *Queue) Bury(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err = q.rdb.RPush(ctx, constants.MailDeadKey, payload).Err(); err != nil {
		return fmt.Errorf("bury job: %w", err)
	}
	return nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, constants.MailQueueKey).Result()
}
