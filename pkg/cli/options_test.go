package cli

import (
	"testing"

	"liferayscan/pkg/network"
	"liferayscan/pkg/types"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*types.CmdOptionsType, *pflag.FlagSet) {
	t.Helper()
	opts := &types.CmdOptionsType{}
	flags := pflag.NewFlagSet("liferayscan", pflag.ContinueOnError)
	BindFlags(flags, opts)
	require.NoError(t, flags.Parse(args))
	return opts, flags
}

func TestBindFlagsDefaults(t *testing.T) {
	opts, flags := parse(t, "-u", "http://a", "-u", "b:8080", "-kUP", "--timeout", "5")

	assert.Equal(t, []string{"http://a", "b:8080"}, opts.Target)
	assert.True(t, opts.Insecure)
	assert.True(t, opts.EnumUsers)
	assert.True(t, opts.EnumPortlets)
	assert.False(t, opts.Force)
	assert.Equal(t, 5, opts.Timeout)
	assert.Equal(t, 20, opts.ConnTimeout)
	assert.Equal(t, 5, opts.Threads)
	assert.Equal(t, 10, opts.Workers)
	assert.Equal(t, "config.yaml", opts.Config)
	assert.True(t, flags.Changed("timeout"))
	assert.False(t, flags.Changed("threads"))
}

func TestVerifyOptions(t *testing.T) {
	opts, _ := parse(t)
	assert.Error(t, VerifyOptions(opts), "没有目标时应报错")

	opts, _ = parse(t, "--print")
	assert.NoError(t, VerifyOptions(opts))

	opts, _ = parse(t, "-u", "x", "--sock", "out.txt")
	assert.Error(t, VerifyOptions(opts))

	opts, _ = parse(t, "-u", "x", "--format", "xml")
	assert.Error(t, VerifyOptions(opts))

	opts, _ = parse(t, "-u", "x", "-t", "0", "-w", "0", "--timeout", "0", "--user-agent", " ")
	require.NoError(t, VerifyOptions(opts))
	assert.Equal(t, 5, opts.Threads)
	assert.Equal(t, 10, opts.Workers)
	assert.Equal(t, 20, opts.Timeout)
	assert.NotEmpty(t, opts.UserAgent)
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		opts types.CmdOptionsType
		want string
	}{
		{types.CmdOptionsType{}, "txt"},
		{types.CmdOptionsType{Output: "r.csv"}, "csv"},
		{types.CmdOptionsType{Output: "r.CSV", JSONOutput: true}, "json"},
		{types.CmdOptionsType{Output: "r.msgpack"}, "msgpack"},
		{types.CmdOptionsType{Output: "r.log", Format: "json"}, "json"},
		{types.CmdOptionsType{Format: " MSGPACK "}, "msgpack"},
	}
	for _, tt := range tests {
		opts := tt.opts
		assert.Equal(t, tt.want, OutputFormat(&opts))
	}
}

func TestUserAgentFollowsVersion(t *testing.T) {
	saved := defaultVersion
	defer func() { defaultVersion = saved }()

	defaultVersion = "v9.8.7"
	assert.Equal(t, "LiferayScan/9.8.7", UserAgent())

	defaultVersion = saved
	assert.Equal(t, UserAgent(), network.DefaultUserAgent)

	opts, _ := parse(t)
	assert.Equal(t, network.DefaultUserAgent, opts.UserAgent)
}
