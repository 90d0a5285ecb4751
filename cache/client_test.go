package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       Config
		want      error
		wantAddrs []string
	}{
		{name: "single ok", cfg: Config{Addr: "localhost:6379"}, wantAddrs: []string{"localhost:6379"}},
		{name: "single from addrs", cfg: Config{Addrs: []string{" ", "a:1"}}, wantAddrs: []string{"a:1"}},
		{name: "no address", cfg: Config{}, want: errAddressRequired},
		{name: "negative db", cfg: Config{Addr: "a:1", DB: -1}, want: errInvalidDB},
		{name: "single too many", cfg: Config{Addrs: []string{"a:1", "b:2"}}, want: errSingleModeAddrCount},
		{name: "cluster ok", cfg: Config{Mode: "CLUSTER", Addrs: []string{"a:1", "b:2"}}, wantAddrs: []string{"a:1", "b:2"}},
		{name: "cluster one addr", cfg: Config{Mode: ModeCluster, Addr: "a:1"}, want: errClusterModeAddrCount},
		{name: "cluster db", cfg: Config{Mode: ModeCluster, Addrs: []string{"a:1", "b:2"}, DB: 1}, want: errClusterDBUnsupported},
		{name: "sentinel unsupported", cfg: Config{Mode: "sentinel", Addr: "a:1"}, want: errUnsupportedMode},
		{name: "namespace with colon", cfg: Config{Addr: "a:1", Namespace: "a:b"}, want: errInvalidNamespace},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			opt, err := tc.cfg.options()
			require.ErrorIs(t, err, tc.want)
			if tc.want == nil {
				assert.Equal(t, tc.wantAddrs, opt.Addrs)
			}
		})
	}
}

func TestConfigOptions_TLS(t *testing.T) {
	t.Parallel()

	opt, err := Config{Addr: "a:1"}.options()
	require.NoError(t, err)
	assert.Nil(t, opt.TLSConfig)

	opt, err = Config{Addr: "a:1", TLSEnabled: true}.options()
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
}

func TestConfigKeyPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "contactform:", Config{}.KeyPrefix())
	assert.Equal(t, "shop:", Config{Namespace: " shop "}.KeyPrefix())
}

func TestNewClient_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewClient(context.Background(), Config{Addr: mr.Addr(), DialTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestNewClient_PingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), Config{Addr: addr, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cache: ping")
	require.Contains(t, err.Error(), addr)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.ErrorIs(t, err, errAddressRequired)
}
