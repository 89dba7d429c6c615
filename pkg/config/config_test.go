package config

import (
	"os"
	"path/filepath"
	"testing"

	"liferayscan/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, found, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 20, cfg.HTTP.ConnectTimeout)
	assert.Equal(t, 20, cfg.HTTP.Timeout)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	cfg := Default()
	cfg.HTTP.Proxy = "socks5://127.0.0.1:1080"
	cfg.Scan.EnumerateUsers = true
	cfg.Output.Match = "is_liferay"

	require.NoError(t, cfg.Save(path))
	assert.Error(t, cfg.Save(path), "已存在的配置文件不应被覆盖")

	loaded, found, err := Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  threads: 20\nhttp:\n  insecure: true\n"), 0644))

	cfg, found, err := Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 20, cfg.Scan.Threads)
	assert.Equal(t, DefaultWorkers, cfg.Scan.Workers)
	assert.True(t, cfg.HTTP.Insecure)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	notYaml := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(notYaml, []byte("x"), 0644))
	_, _, err := Load(notYaml)
	assert.Error(t, err)

	broken := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("scan: [1, 2"), 0644))
	_, _, err = Load(broken)
	assert.Error(t, err)
}

func TestApplyRespectsExplicitFlags(t *testing.T) {
	cfg := Default()
	cfg.Scan.Threads = 50
	cfg.HTTP.Proxy = "http://127.0.0.1:8080"
	cfg.Output.Format = "csv"

	opts := &types.CmdOptionsType{Threads: 3, Proxy: "socks5://10.0.0.1:1080"}
	cfg.Apply(opts, func(name string) bool { return name == "threads" })

	assert.Equal(t, 3, opts.Threads)
	assert.Equal(t, "http://127.0.0.1:8080", opts.Proxy)
	assert.Equal(t, "csv", opts.Format)
	assert.Equal(t, DefaultWorkers, opts.Workers)
}

func TestEffectiveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Wordlists.Users = "users.txt"
	opts := &types.CmdOptionsType{}
	cfg.Apply(opts, func(string) bool { return false })

	assert.Equal(t, cfg, Effective(opts))
}
