package services

import (
	"context"
	"net"
	"sync"
	"time"

	"disaster-relief/beacon/internal/logging"
)

// ConnectivityChecker answers whether the backend is currently reachable.
type ConnectivityChecker interface {
	Online() bool
}

// ConnectivityService probes a TCP endpoint (the gateway host) to decide
// online state, and emits an event on every offline->online transition so
// the drain job can fire immediately on reconnect.
type ConnectivityService struct {
	probe    func() bool
	interval time.Duration

	mu     sync.Mutex
	online bool
}

// NewConnectivityService probes addr (host:port) every interval.
func NewConnectivityService(addr string, interval time.Duration) *ConnectivityService {
	probe := func() bool {
		conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
	return &ConnectivityService{probe: probe, interval: interval, online: probe()}
}

// Online re-probes and returns the current reachability.
func (s *ConnectivityService) Online() bool {
	up := s.probe()
	s.mu.Lock()
	s.online = up
	s.mu.Unlock()
	return up
}

// Watch probes until ctx is done and sends on the returned channel whenever
// the link comes back up. Sends are non-blocking; a slow consumer misses
// intermediate transitions, not the latest one.
func (s *ConnectivityService) Watch(ctx context.Context) <-chan struct{} {
	reconnect := make(chan struct{}, 1)
	log := logging.WithComponent("connectivity")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				up := s.probe()

				s.mu.Lock()
				wasUp := s.online
				s.online = up
				s.mu.Unlock()

				if up && !wasUp {
					log.Infow("Network link restored")
					select {
					case reconnect <- struct{}{}:
					default:
					}
				}
				if !up && wasUp {
					log.Warnw("Network link lost")
				}
			}
		}
	}()

	return reconnect
}
