package service

import (
	"context"
	"sync"
	"time"

	pkgredis "tanker-ledger/pkg/redis"
)

// sequenceTTL 序号记录的保留时长，过期后从头计数
const sequenceTTL = 24 * time.Hour

// Sequencer 记录每个键已处理的最新请求序号
// Advance 返回 false 表示 seq 小于已记录的序号（请求已过期）；相等视为重放，允许通过
type Sequencer interface {
	Advance(ctx context.Context, key string, seq int64) (bool, error)
}

// NewSequencer rdb 为 nil 时退回进程内实现（单实例部署）
func NewSequencer(rdb *pkgredis.Client) Sequencer {
	if rdb == nil {
		return NewMemorySequencer()
	}
	return &redisSequencer{rdb: rdb}
}

type redisSequencer struct {
	rdb *pkgredis.Client
}

func (s *redisSequencer) Advance(ctx context.Context, key string, seq int64) (bool, error) {
	return s.rdb.AdvanceSequence(ctx, key, seq, sequenceTTL)
}

// MemorySequencer 进程内序号表，与 Redis 实现一样在 sequenceTTL 内无活动的键视为不存在
type MemorySequencer struct {
	mu        sync.Mutex
	latest    map[string]sequenceMark
	nextSweep time.Time
	now       func() time.Time
}

type sequenceMark struct {
	seq     int64
	expires time.Time
}

// NewMemorySequencer 创建进程内序号表
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{latest: make(map[string]sequenceMark), now: time.Now}
}

// Advance 实现 Sequencer
func (s *MemorySequencer) Advance(_ context.Context, key string, seq int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if cur, ok := s.latest[key]; ok && now.Before(cur.expires) && seq < cur.seq {
		return false, nil
	}
	s.latest[key] = sequenceMark{seq: seq, expires: now.Add(sequenceTTL)}
	return true, nil
}

// sweep 清理过期键，最多每 sequenceTTL 执行一次
func (s *MemorySequencer) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for k, m := range s.latest {
		if !now.Before(m.expires) {
			delete(s.latest, k)
		}
	}
	s.nextSweep = now.Add(sequenceTTL)
}
