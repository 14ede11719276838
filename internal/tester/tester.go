// Package tester checks that stored profiles point at a reachable server.
// It only opens a TCP connection to host:port; no proxy handshake is made.
package tester

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"proxyconf/internal/config"
	"proxyconf/internal/logger"
	"proxyconf/internal/metrics"
	"proxyconf/internal/model"
)

type Tester struct {
	cfg  config.CheckConfig
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

type Result struct {
	Profile model.Proxy
	Latency time.Duration
	Attempt int // zero-based attempt that succeeded
	Err     error
}

func (r Result) Alive() bool { return r.Err == nil }

func New(cfg config.CheckConfig) *Tester {
	d := &net.Dialer{}
	return &Tester{cfg: cfg, dial: d.DialContext}
}

// Check probes one profile, retrying up to cfg.Retries times.
func (t *Tester) Check(ctx context.Context, p model.Proxy, mc *metrics.Collector) Result {
	addr := net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	res := Result{Profile: p}

	for i := 0; i <= t.cfg.Retries; i++ {
		d, err := t.probe(ctx, addr)
		if err == nil {
			if mc != nil {
				mc.RecordSuccess(i, d)
			}
			res.Latency, res.Attempt, res.Err = d, i, nil
			return res
		}

		res.Err = err
		if mc != nil {
			mc.RecordFailure(err)
		}
		if ctx.Err() != nil {
			break
		}

		// Brief backoff
		if i < t.cfg.Retries {
			select {
			case <-ctx.Done():
			case <-time.After(200 * time.Millisecond):
			}
		}
	}
	logger.Log.Debugf("Profile %q unreachable at %s: %v", p.Name, addr, res.Err)
	return res
}

func (t *Tester) probe(ctx context.Context, addr string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	start := time.Now()
	conn, err := t.dial(ctx, "tcp", addr)
	if err != nil {
		return 0, err
	}
	d := time.Since(start)
	conn.Close()
	return d, nil
}

// CheckAll probes profiles with cfg.WorkerCount workers. Results keep the
// input order. onDone, if set, is called once per finished profile.
func (t *Tester) CheckAll(ctx context.Context, profiles []model.Proxy, mc *metrics.Collector, onDone func()) []Result {
	results := make([]Result, len(profiles))

	workers := t.cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = t.Check(ctx, profiles[i], mc)
				if onDone != nil {
					onDone()
				}
			}
		}()
	}

	for i := range profiles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
