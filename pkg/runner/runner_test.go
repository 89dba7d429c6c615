package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"liferayscan/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTargets(t *testing.T) {
	list := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(list, []byte("# 注释\nhttp://b\n\n  http://a  \nhttp://c\nhttp://b\n"), 0644))

	targets, err := getTargets(&types.CmdOptionsType{
		Target:      []string{"http://a", " ", "http://z"},
		TargetsList: list,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a", "http://z", "http://b", "http://c"}, targets)

	_, err = getTargets(&types.CmdOptionsType{TargetsList: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}

func testScanConfig(t *testing.T) *ScanConfig {
	t.Helper()
	cfg := NewScanConfig(&types.CmdOptionsType{
		ConnTimeout: 2,
		Timeout:     2,
		Threads:     2,
		Workers:     4,
		NoColor:     true,
	})
	return cfg
}

func TestNewScanConfigDefaults(t *testing.T) {
	cfg := NewScanConfig(&types.CmdOptionsType{Timeout: 7, ConnTimeout: 3, Format: "csv"})
	assert.Equal(t, DefaultURLWorkers, cfg.URLWorkerCount)
	assert.Equal(t, DefaultProbeWorkers, cfg.ProbeWorkerCount)
	assert.Equal(t, 7*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ConnectTimeout)
	assert.Equal(t, "csv", cfg.OutputFormat)
	assert.NotNil(t, cfg.HTTP.Logger)
}

func TestRunnerWritesMatchingResults(t *testing.T) {
	liferaySrv := newLiferayServer(t, nil)
	plainSrv := httptest.NewServer(http.NotFoundHandler())
	defer plainSrv.Close()

	out := filepath.Join(t.TempDir(), "result.json")
	cfg := testScanConfig(t)
	cfg.OutputFile = out
	cfg.OutputFormat = "json"
	cfg.Match = `is_liferay && json_api`

	r, err := NewRunner(cfg)
	require.NoError(t, err)

	err = r.Run(context.Background(), &types.CmdOptionsType{
		Target: []string{liferaySrv.URL, plainSrv.URL, liferaySrv.URL, "ftp://invalid"},
	})
	require.NoError(t, err)

	require.Len(t, r.Results, 3)
	assert.Error(t, r.Results["ftp://invalid"].Err)
	assert.True(t, r.Results[liferaySrv.URL].Matched)
	assert.False(t, r.Results[plainSrv.URL].Matched)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var fp types.Fingerprint
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &fp))
	assert.Equal(t, liferaySrv.URL+"/", fp.Target)
	assert.Equal(t, "Liferay Community Edition Portal 7.3.5 CE GA6", fp.Version)

	summary := summarize([]string{liferaySrv.URL, plainSrv.URL, "ftp://invalid"}, r.Results)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Liferay)
	assert.Equal(t, 1, summary.NotFound)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Filtered)
}

func TestRunnerRejectsBadFilter(t *testing.T) {
	cfg := testScanConfig(t)
	cfg.Match = "version &&"
	_, err := NewRunner(cfg)
	assert.Error(t, err)
}

func TestRunnerLoadsEmbeddedWordlists(t *testing.T) {
	cfg := testScanConfig(t)
	cfg.EnumUsers = true
	cfg.EnumPortlets = true

	r, err := NewRunner(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, r.detector.opts.Users)
	assert.NotEmpty(t, r.detector.opts.Portlets)

	cfg.PortletsFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = NewRunner(cfg)
	assert.Error(t, err)
}

func TestRunnerNoTargets(t *testing.T) {
	r, err := NewRunner(testScanConfig(t))
	require.NoError(t, err)
	assert.Error(t, r.Run(context.Background(), &types.CmdOptionsType{Target: []string{"# only comment"}}))
}

func TestMemoryMonitor(t *testing.T) {
	m := StartMemoryMonitor(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	m.Stop()

	stats := GetMemoryStats()
	assert.Positive(t, stats.HeapSys)

	m.highMemThreshold = 0
	assert.True(t, m.handleMemoryPressure(stats))
	m.highMemThreshold = ^uint64(0)
	assert.False(t, m.handleMemoryPressure(MemoryStats{HeapAlloc: 1, MemoryUsage: 10}))
}

func TestRunProbesRecoversPanic(t *testing.T) {
	var stats probeStats
	done := make([]bool, 3)
	tasks := []probeTask{
		{name: "a", run: func() { done[0] = true }},
		{name: "boom", run: func() { panic("boom") }},
		{name: "c", run: func() { done[2] = true }},
	}
	runProbes(2, tasks, &stats)

	assert.True(t, done[0])
	assert.True(t, done[2])
	got := stats.snapshot()
	assert.Equal(t, int64(3), got.TotalTasks)
	assert.Equal(t, int64(2), got.CompletedTasks)
	assert.Equal(t, int64(1), got.FailedTasks)
}
