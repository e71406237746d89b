package store

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xeroq/api/internal/model"
)

const (
	jobKeyPrefix  = "job:"
	jobIndexKey   = "jobs:all"
	changeChannel = "queue:changed"
)

// RedisStore persists jobs as JSON values with a set index, and carries
// the changefeed over pub/sub so every process observing the queue hears
// about writes from every other process.
type RedisStore struct {
	client *redis.Client

	lmu       sync.Mutex
	listeners map[int]func()
	nextToken int
	cancelSub context.CancelFunc
}

func NewRedisStore(client *redis.Client) *RedisStore {
	s := &RedisStore{
		client:    client,
		listeners: make(map[int]func()),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelSub = cancel
	go s.listen(ctx)

	return s
}

// Close stops the pub/sub listener.
func (s *RedisStore) Close() {
	s.cancelSub()
}

func (s *RedisStore) Create(ctx context.Context, job *model.Job) error {
	job.ID = uuid.New().String()
	job.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return &PersistenceError{Op: "marshal job", Err: err}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, jobKeyPrefix+job.ID, data, 0)
	pipe.SAdd(ctx, jobIndexKey, job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return &PersistenceError{Op: "create job", Err: err}
	}

	s.publish(ctx)
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := s.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get job", Err: err}
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, &PersistenceError{Op: "unmarshal job", Err: err}
	}
	return &job, nil
}

func (s *RedisStore) Update(ctx context.Context, job *model.Job) error {
	exists, err := s.client.Exists(ctx, jobKeyPrefix+job.ID).Result()
	if err != nil {
		return &PersistenceError{Op: "update job", Err: err}
	}
	if exists == 0 {
		return ErrNotFound
	}

	data, err := json.Marshal(job)
	if err != nil {
		return &PersistenceError{Op: "marshal job", Err: err}
	}
	if err := s.client.Set(ctx, jobKeyPrefix+job.ID, data, 0).Err(); err != nil {
		return &PersistenceError{Op: "update job", Err: err}
	}

	s.publish(ctx)
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, jobKeyPrefix+id)
	pipe.SRem(ctx, jobIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return &PersistenceError{Op: "delete job", Err: err}
	}
	if del.Val() == 0 {
		return ErrNotFound
	}

	s.publish(ctx)
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]model.Job, error) {
	ids, err := s.client.SMembers(ctx, jobIndexKey).Result()
	if err != nil {
		return nil, &PersistenceError{Op: "list jobs", Err: err}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = jobKeyPrefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, &PersistenceError{Op: "list jobs", Err: err}
	}

	jobs := make([]model.Job, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // index entry whose record expired or was removed
		}
		var job model.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, &PersistenceError{Op: "unmarshal job", Err: err}
		}
		jobs = append(jobs, job)
	}

	// Set members come back unordered; callers expect creation order.
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.Before(jobs[k].CreatedAt)
	})

	return jobs, nil
}

func (s *RedisStore) Subscribe(fn func()) func() {
	s.lmu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, token)
		s.lmu.Unlock()
	}
}

func (s *RedisStore) publish(ctx context.Context) {
	if err := s.client.Publish(ctx, changeChannel, "1").Err(); err != nil {
		log.Printf("store: publish change notification: %v", err)
	}
}

func (s *RedisStore) listen(ctx context.Context) {
	sub := s.client.Subscribe(ctx, changeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			s.lmu.Lock()
			fns := make([]func(), 0, len(s.listeners))
			for _, fn := range s.listeners {
				fns = append(fns, fn)
			}
			s.lmu.Unlock()

			for _, fn := range fns {
				fn()
			}
		}
	}
}
