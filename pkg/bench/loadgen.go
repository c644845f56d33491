package bench

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/scottcagno/rhmap/pkg/rhmap"
)

// LoadStats summarizes one load-generation run against a sharded table.
type LoadStats struct {
	Sets    uint64        `json:"sets"`
	Gets    uint64        `json:"gets"`
	Hits    uint64        `json:"hits"`
	Dels    uint64        `json:"dels"`
	Final   int           `json:"final_len"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// poolSubmitter is the slice of the worker pool the generator needs.
type poolSubmitter interface {
	Submit(task func()) error
}

// RunLoad drives a ShardedMap from a worker pool with a deterministic
// per-worker op mix. The core table is single-owner; concurrency lives
// entirely in the sharded wrapper, which is the point of the exercise.
func RunLoad(cfg Config, log *zap.Logger) (LoadStats, error) {
	if err := cfg.Validate(); err != nil {
		return LoadStats{}, err
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return LoadStats{}, fmt.Errorf("bench: starting pool: %w", err)
	}
	defer pool.Release()
	return runLoad(cfg, log, pool)
}

func runLoad(cfg Config, log *zap.Logger, pool poolSubmitter) (LoadStats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	m := rhmap.NewShardedMap[string, []byte](uint(cfg.Shards), uint(cfg.Keys))
	value := make([]byte, cfg.ValueSize)

	var stats LoadStats
	var wg sync.WaitGroup
	perWorker := cfg.Ops / cfg.Workers

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		w := w
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(w)))
			for i := 0; i < perWorker; i++ {
				k := fmt.Sprintf("k-%08d", rng.Intn(cfg.Keys))
				switch {
				case rng.Intn(100) < cfg.ReadPct:
					if _, ok := m.Get(k); ok {
						atomic.AddUint64(&stats.Hits, 1)
					}
					atomic.AddUint64(&stats.Gets, 1)
				case rng.Intn(4) == 0:
					m.Del(k)
					atomic.AddUint64(&stats.Dels, 1)
				default:
					m.Set(k, value)
					atomic.AddUint64(&stats.Sets, 1)
				}
			}
		})
		if err != nil {
			// drain the workers already running before the pool goes away
			wg.Done()
			wg.Wait()
			return LoadStats{}, fmt.Errorf("bench: submitting worker: %w", err)
		}
	}
	wg.Wait()
	stats.Elapsed = time.Since(start)
	stats.Final = m.Len()

	log.Info("load run complete",
		zap.Uint64("sets", stats.Sets),
		zap.Uint64("gets", stats.Gets),
		zap.Uint64("hits", stats.Hits),
		zap.Uint64("dels", stats.Dels),
		zap.Int("final_len", stats.Final),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}
