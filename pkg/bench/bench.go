// Package bench is the timing and load harness for the rhmap tables. It only
// speaks to the public mapping interface, so everything here would work
// against any associative container with the same shape.
package bench

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/scottcagno/rhmap/pkg/rhmap"
)

// Result is one timed phase against one table implementation.
type Result struct {
	Table   string        `json:"table"`
	Phase   string        `json:"phase"`
	Ops     int           `json:"ops"`
	Elapsed time.Duration `json:"elapsed_ns"`
	NsPerOp float64       `json:"ns_per_op"`
}

// table is the minimal surface the harness needs from a map.
type table interface {
	set(key string, value []byte)
	get(key string) bool
	del(key string) bool
}

type rhTable struct{ m *rhmap.Map[string, []byte] }

func (t rhTable) set(k string, v []byte) { t.m.Set(k, v) }

func (t rhTable) get(k string) bool { _, ok := t.m.Get(k); return ok }

func (t rhTable) del(k string) bool { _, ok := t.m.Del(k); return ok }

type builtinTable struct{ m map[string][]byte }

func (t builtinTable) set(k string, v []byte) { t.m[k] = v }

func (t builtinTable) get(k string) bool { _, ok := t.m[k]; return ok }
func (t builtinTable) del(k string) bool {
	_, ok := t.m[k]
	delete(t.m, k)
	return ok
}

// Runner times the rhmap layouts against the built-in map baseline.
type Runner struct {
	cfg Config
	log *zap.Logger
}

func NewRunner(cfg Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run executes every phase against every table and returns the flat result
// list, baseline last so reports read naturally.
func (r *Runner) Run() []Result {
	tables := []struct {
		name string
		make func() table
	}{
		{"rhmap/flat", func() table { return rhTable{m: rhmap.New[string, []byte](0)} }},
		{"rhmap/columns", func() table { return rhTable{m: rhmap.NewColumnar[string, []byte](0)} }},
		{"builtin", func() table { return builtinTable{m: make(map[string][]byte)} }},
	}

	keys := makeKeys(r.cfg.Keys, "k")
	missKeys := makeKeys(r.cfg.Keys, "miss")
	value := make([]byte, r.cfg.ValueSize)

	var out []Result
	for _, tt := range tables {
		t := tt.make()
		out = append(out,
			r.phase(tt.name, "insert", len(keys), func(rng *rand.Rand) {
				for _, k := range keys {
					t.set(k, value)
				}
			}),
			r.phase(tt.name, "get-hit", r.cfg.Ops, func(rng *rand.Rand) {
				for i := 0; i < r.cfg.Ops; i++ {
					t.get(keys[rng.Intn(len(keys))])
				}
			}),
			r.phase(tt.name, "get-miss", r.cfg.Ops, func(rng *rand.Rand) {
				for i := 0; i < r.cfg.Ops; i++ {
					t.get(missKeys[rng.Intn(len(missKeys))])
				}
			}),
			r.phase(tt.name, "mixed", r.cfg.Ops, func(rng *rand.Rand) {
				for i := 0; i < r.cfg.Ops; i++ {
					k := keys[rng.Intn(len(keys))]
					if rng.Intn(100) < r.cfg.ReadPct {
						t.get(k)
					} else {
						t.set(k, value)
					}
				}
			}),
			r.phase(tt.name, "delete", len(keys), func(rng *rand.Rand) {
				for _, k := range keys {
					t.del(k)
				}
			}),
		)
	}
	return out
}

func (r *Runner) phase(tableName, phase string, ops int, fn func(rng *rand.Rand)) Result {
	rng := rand.New(rand.NewSource(r.cfg.Seed))
	start := time.Now()
	fn(rng)
	elapsed := time.Since(start)
	res := Result{
		Table:   tableName,
		Phase:   phase,
		Ops:     ops,
		Elapsed: elapsed,
		NsPerOp: float64(elapsed.Nanoseconds()) / float64(ops),
	}
	r.log.Info("phase complete",
		zap.String("table", tableName),
		zap.String("phase", phase),
		zap.Int("ops", ops),
		zap.Duration("elapsed", elapsed),
		zap.Float64("ns_per_op", res.NsPerOp),
	)
	return res
}

func makeKeys(n int, prefix string) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%08d", prefix, i)
	}
	return keys
}
