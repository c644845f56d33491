package bench

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Ops = 2000
	cfg.Keys = 500
	cfg.ValueSize = 8
	cfg.Workers = 4
	cfg.Shards = 4
	return cfg
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Ops = 0
	require.Error(t, bad.Validate())
	bad = DefaultConfig()
	bad.ReadPct = 101
	require.Error(t, bad.Validate())
	bad = DefaultConfig()
	bad.Workers = -1
	require.Error(t, bad.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte("ops = 1234\nread_pct = 50\n"), 0644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 1234, cfg.Ops)
	require.Equal(t, 50, cfg.ReadPct)
	// untouched fields keep their defaults
	require.Equal(t, DefaultConfig().Keys, cfg.Keys)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestRunnerCoversAllPhases(t *testing.T) {
	results := NewRunner(smallConfig(), nil).Run()
	require.Len(t, results, 3*5)
	seen := make(map[string]int)
	for _, r := range results {
		require.Greater(t, r.Ops, 0)
		require.GreaterOrEqual(t, r.NsPerOp, 0.0)
		seen[r.Table]++
	}
	require.Equal(t, 5, seen["rhmap/flat"])
	require.Equal(t, 5, seen["rhmap/columns"])
	require.Equal(t, 5, seen["builtin"])
}

func TestRunLoad(t *testing.T) {
	stats, err := RunLoad(smallConfig(), nil)
	require.NoError(t, err)
	total := stats.Sets + stats.Gets + stats.Dels
	require.Equal(t, uint64(2000), total)
	require.GreaterOrEqual(t, stats.Gets, stats.Hits)

	bad := smallConfig()
	bad.Keys = 0
	_, err = RunLoad(bad, nil)
	require.Error(t, err)
}

// gatedSubmitter runs tasks in goroutines held behind a gate and fails the
// n-th submission, standing in for a pool that cannot accept more work.
type gatedSubmitter struct {
	failAt int
	calls  int
	gate   chan struct{}
}

func (g *gatedSubmitter) Submit(task func()) error {
	g.calls++
	if g.calls == g.failAt {
		return errors.New("pool saturated")
	}
	go func() {
		<-g.gate
		task()
	}()
	return nil
}

func TestRunLoadDrainsOnSubmitFailure(t *testing.T) {
	gate := make(chan struct{})
	sub := &gatedSubmitter{failAt: 3, gate: gate}

	var runErr error
	returned := make(chan struct{})
	go func() {
		_, runErr = runLoad(smallConfig(), nil, sub)
		close(returned)
	}()

	// with two submitted workers still gated, the failed run must not
	// return yet
	select {
	case <-returned:
		t.Fatal("runLoad returned while submitted workers were still running")
	case <-time.After(50 * time.Millisecond):
	}
	close(gate)
	<-returned
	require.Error(t, runErr)
}

func TestWriteResults(t *testing.T) {
	run := Run{
		At:      time.Now().UTC(),
		Config:  smallConfig(),
		Results: []Result{{Table: "rhmap/flat", Phase: "insert", Ops: 1, NsPerOp: 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResults("", &buf, run))
	var back Run
	require.NoError(t, sonnet.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back.Results, 1)
	require.Equal(t, "insert", back.Results[0].Phase)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteResults(path, nil, run))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSaveResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")
	run := Run{
		At:     time.Now().UTC(),
		Config: smallConfig(),
		Results: []Result{
			{Table: "rhmap/flat", Phase: "insert", Ops: 10, NsPerOp: 1.5},
			{Table: "builtin", Phase: "insert", Ops: 10, NsPerOp: 2.5},
		},
	}
	require.NoError(t, SaveResults(path, run))
	// appending a second run keeps the history
	require.NoError(t, SaveResults(path, run))
}
