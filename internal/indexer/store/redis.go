package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/textfilesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/redis"
)

const (
	fieldWord  = "word"
	fieldCount = "count"
)

// RedisStore keeps entries in Redis under a namespace unique to this run:
//
//	<prefix>:<run>:w:<folded word>        hash {word, count}
//	<prefix>:<run>:w:<folded word>:lines  list of line numbers
//	<prefix>:<run>:terms                  set of folded words
//
// Every key carries the configured TTL and Close removes the namespace, so
// nothing outlives the run.
type RedisStore struct {
	client *pkgredis.Client
	ns     string
	ttl    time.Duration
	terms  int
	logger *slog.Logger
}

func NewRedis(client *pkgredis.Client, cfg config.RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "tfs"
	}
	ns := fmt.Sprintf("%s:%s", prefix, uuid.NewString())
	return &RedisStore{
		client: client,
		ns:     ns,
		ttl:    cfg.TTL,
		logger: slog.Default().With("component", "redis-store", "namespace", ns),
	}
}

func (s *RedisStore) wordKey(folded string) string {
	return s.ns + ":w:" + folded
}

func (s *RedisStore) termsKey() string {
	return s.ns + ":terms"
}

func (s *RedisStore) Add(ctx context.Context, word string, line int) error {
	if word == "" {
		return apperrors.New(apperrors.ErrInvalidInput, apperrors.ExitFailure, "cannot index an empty word")
	}
	folded := index.Fold(word)
	key := s.wordKey(folded)
	linesKey := key + ":lines"

	var added *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldWord, word)
		pipe.HIncrBy(ctx, key, fieldCount, 1)
		pipe.RPush(ctx, linesKey, line)
		added = pipe.SAdd(ctx, s.termsKey(), folded)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
			pipe.Expire(ctx, linesKey, s.ttl)
			pipe.Expire(ctx, s.termsKey(), s.ttl)
		}
		return nil
	})
	if err != nil {
		return apperrors.Newf(apperrors.ErrBackendUnavailable, apperrors.ExitFailure, "adding %q: %v", word, err)
	}
	if added.Val() > 0 {
		s.terms++
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, word string) (index.Entry, bool, error) {
	return s.load(ctx, index.Fold(word))
}

func (s *RedisStore) load(ctx context.Context, folded string) (index.Entry, bool, error) {
	key := s.wordKey(folded)
	fields, err := s.client.HGetAll(ctx, key)
	if err != nil {
		return index.Entry{}, false, fmt.Errorf("reading entry %q: %w", folded, err)
	}
	if len(fields) == 0 {
		return index.Entry{}, false, nil
	}
	raw, err := s.client.LRange(ctx, key+":lines", 0, -1)
	if err != nil {
		return index.Entry{}, false, fmt.Errorf("reading lines of %q: %w", folded, err)
	}
	lines := make([]int, 0, len(raw))
	for _, r := range raw {
		n, err := strconv.Atoi(r)
		if err != nil {
			return index.Entry{}, false, fmt.Errorf("parsing line %q of %q: %w", r, folded, err)
		}
		lines = append(lines, n)
	}
	count, err := strconv.Atoi(fields[fieldCount])
	if err != nil {
		return index.Entry{}, false, fmt.Errorf("parsing count of %q: %w", folded, err)
	}
	if count != len(lines) {
		return index.Entry{}, false, apperrors.Newf(apperrors.ErrInternal, apperrors.ExitFailure,
			"entry %q has count %d but %d lines", folded, count, len(lines))
	}
	return index.Entry{Word: fields[fieldWord], Count: count, Lines: lines}, true, nil
}

func (s *RedisStore) Entries(ctx context.Context) ([]index.Entry, error) {
	members, err := s.client.SMembers(ctx, s.termsKey())
	if err != nil {
		return nil, fmt.Errorf("listing terms: %w", err)
	}
	sort.Slice(members, func(i, j int) bool {
		return index.Compare(members[i], members[j]) < 0
	})
	entries := make([]index.Entry, 0, len(members))
	for _, folded := range members {
		e, ok, err := s.load(ctx, folded)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *RedisStore) Terms() int {
	return s.terms
}

// Ping reports whether the backing Redis answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close deletes the run's keys and closes the connection.
func (s *RedisStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	deleted, err := s.client.FlushByPattern(ctx, s.ns+":*")
	if err != nil {
		s.logger.Error("removing run keys", "error", err)
	} else {
		s.logger.Info("run keys removed", "keys_deleted", deleted)
	}
	if cerr := s.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
