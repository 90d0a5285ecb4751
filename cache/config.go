package cache

import (
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ModeSingle  = "single"
	ModeCluster = "cluster"

	// DefaultNamespace prefixes every key this module writes, so the
	// detection cache can share a redis with other services.
	DefaultNamespace = "contactform"
)

// Config is the "redis" section of the contactform config.
type Config struct {
	Mode         string        `koanf:"mode"`
	Addr         string        `koanf:"addr"`
	Addrs        []string      `koanf:"addrs"`
	DB           int           `koanf:"db"`
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	Namespace    string        `koanf:"namespace"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	PoolSize     int           `koanf:"pool_size"`
	TLSEnabled   bool          `koanf:"tls_enabled"`
}

var (
	errAddressRequired      = errors.New("cache: address is required")
	errUnsupportedMode      = errors.New("cache: unsupported mode")
	errSingleModeAddrCount  = errors.New("cache: single mode requires exactly one address")
	errClusterModeAddrCount = errors.New("cache: cluster mode requires at least two addresses")
	errClusterDBUnsupported = errors.New("cache: db must be 0 in cluster mode")
	errInvalidDB            = errors.New("cache: db must be >= 0")
	errInvalidNamespace     = errors.New("cache: namespace must not contain spaces or ':'")
)

// KeyPrefix returns "<namespace>:" for keys written through this config.
func (c Config) KeyPrefix() string {
	ns := strings.TrimSpace(c.Namespace)
	if ns == "" {
		ns = DefaultNamespace
	}
	return ns + ":"
}

// options validates c and turns it into go-redis options. go-redis picks a
// cluster client when more than one address is given.
func (c Config) options() (*redis.UniversalOptions, error) {
	mode := strings.ToLower(strings.TrimSpace(c.Mode))
	if mode == "" {
		mode = ModeSingle
	}

	addrs := make([]string, 0, len(c.Addrs)+1)
	for _, a := range c.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		if a := strings.TrimSpace(c.Addr); a != "" {
			addrs = append(addrs, a)
		}
	}

	switch {
	case c.DB < 0:
		return nil, errInvalidDB
	case len(addrs) == 0:
		return nil, errAddressRequired
	case strings.ContainsAny(strings.TrimSpace(c.Namespace), ": "):
		return nil, errInvalidNamespace
	}

	switch mode {
	case ModeSingle:
		if len(addrs) != 1 {
			return nil, errSingleModeAddrCount
		}
	case ModeCluster:
		if len(addrs) < 2 {
			return nil, errClusterModeAddrCount
		}
		if c.DB != 0 {
			return nil, errClusterDBUnsupported
		}
	default:
		return nil, errUnsupportedMode
	}

	opt := &redis.UniversalOptions{
		Addrs:        addrs,
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
	if c.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}
