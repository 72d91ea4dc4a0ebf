package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
	"wolwake/internal/providers"
	"wolwake/internal/structures"
)

const (
	MethodPing = "ping"
	MethodPort = "port"

	DefaultPort = 8888
)

type ProberInterface interface {
	IsAlive(ctx context.Context, address, method string, timeout time.Duration) bool
}

// LivenessProbe reports whether the desktop already answers on the network.
// Every probe error is reported as "not alive".
type LivenessProbe struct {
	port   int
	cache  providers.CacheProviderInterface
	logger providers.Logger
	ping   func(ctx context.Context, address string, timeout time.Duration) error
}

func NewLivenessProbe(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) ProberInterface {
	port := conf.Monitoring.PcCheckPort
	if port <= 0 {
		port = DefaultPort
	}
	return &LivenessProbe{
		port:   port,
		cache:  cache,
		logger: logger,
		ping:   icmpEcho,
	}
}

func (p *LivenessProbe) IsAlive(ctx context.Context, address, method string, timeout time.Duration) bool {
	key := method + "|" + address
	if v, ok := p.cache.Get(key); ok && len(v) == 1 {
		p.logger.Debugf(providers.TypeCheck, "Liveness for %s (%s) served from cache: %t", address, method, v[0] == 1)
		return v[0] == 1
	}

	var err error
	switch method {
	case MethodPing:
		err = p.ping(ctx, address, timeout)
	case MethodPort:
		err = p.dial(ctx, address, timeout)
	default:
		p.logger.Warnf(providers.TypeCheck, "Unknown liveness method %q, assuming not alive", method)
		return false
	}

	alive := err == nil
	if err != nil {
		p.logger.Debugf(providers.TypeCheck, "Liveness probe %s %s: %s", method, address, err)
	}

	var v byte
	if alive {
		v = 1
	}
	p.cache.Set(key, []byte{v})
	return alive
}

func (p *LivenessProbe) dial(ctx context.Context, address string, timeout time.Duration) error {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(p.port)))
	if err != nil {
		return fmt.Errorf("tcp connect: %w", err)
	}
	return conn.Close()
}
