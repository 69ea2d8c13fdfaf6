package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/sliced/pkg/cache"
)

const redisIndexKey = "sliced:projects"

// RedisStore keeps projects as JSON strings in Redis. A set holds the ids
// of all stored projects so List does not need to scan the keyspace.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server at url and pings it.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	if err := cache.Ping(ctx, c); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &RedisStore{client: c}, nil
}

func redisKey(id string) string { return "sliced:project:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (*Project, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", id, err)
	}
	return &p, nil
}

func (s *RedisStore) Put(ctx context.Context, p *Project) error {
	if err := validID(p.ID); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(p.ID), data, 0)
		pipe.SAdd(ctx, redisIndexKey, p.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey(id))
		pipe.SRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Project, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects := make([]*Project, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var p Project
		if err := json.Unmarshal([]byte(str), &p); err != nil {
			continue
		}
		projects = append(projects, &p)
	}
	sortByUpdated(projects)
	return projects, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
