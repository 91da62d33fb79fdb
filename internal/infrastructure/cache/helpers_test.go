package cache

import (
	"net"
	"strconv"
	"testing"

	"github.com/erp/pricesync/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
)

func redisConfigFor(t *testing.T, addr string) config.RedisConfig {
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return config.RedisConfig{Enabled: true, Host: host, Port: p}
}
