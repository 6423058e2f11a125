package redis

import (
	"context"

	"github.com/DRSN-tech/eshop-etl/internal/cfg"
	"github.com/DRSN-tech/eshop-etl/pkg/clients"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	hashSetKeyPrefix = "etl:loaded:"

	// Проверка и пополнение идут порциями, чтобы не собирать команду
	// на сотни тысяч аргументов.
	chunkSize = 10000
)

// HashCacheRepo хранит множества уже загруженных контентных хэшей по
// таблицам. Кэш — только ускорение повторных запусков: источник истины
// всегда сама таблица.
type HashCacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewHashCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *HashCacheRepo {
	return &HashCacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// FilterKnown возвращает подмножество hashes, уже отмеченных для таблицы.
func (r *HashCacheRepo) FilterKnown(ctx context.Context, table string, hashes []string) (map[string]struct{}, error) {
	known := make(map[string]struct{})
	key := hashSetKeyPrefix + table

	for start := 0; start < len(hashes); start += chunkSize {
		end := start + chunkSize
		if end > len(hashes) {
			end = len(hashes)
		}

		chunk := hashes[start:end]
		members := make([]interface{}, len(chunk))
		for i, h := range chunk {
			members[i] = h
		}

		flags, err := r.client.Client.SMIsMember(ctx, key, members...).Result()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		for i, isMember := range flags {
			if isMember {
				known[chunk[i]] = struct{}{}
			}
		}
	}

	return known, nil
}

// AddKnown отмечает хэши загруженными и продлевает TTL множества.
func (r *HashCacheRepo) AddKnown(ctx context.Context, table string, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	key := hashSetKeyPrefix + table

	for start := 0; start < len(hashes); start += chunkSize {
		end := start + chunkSize
		if end > len(hashes) {
			end = len(hashes)
		}

		chunk := hashes[start:end]
		members := make([]interface{}, len(chunk))
		for i, h := range chunk {
			members[i] = h
		}

		if err := r.client.Client.SAdd(ctx, key, members...).Err(); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := r.client.Client.Expire(ctx, key, r.cfg.HashSetTTL).Err(); err != nil {
		r.logger.Warnf("failed to set TTL on %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}
