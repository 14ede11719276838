package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// Collector aggregates reachability probe outcomes. Safe for concurrent use.
type Collector struct {
	mu sync.Mutex

	// Latency Tracking (Successes only)
	latencies []time.Duration

	successByAttempt map[int]int
	totalSuccess     int

	errorCounts   map[string]int
	totalErrors   int
	timeoutErrors int
}

func New() *Collector {
	return &Collector{
		successByAttempt: make(map[int]int),
		errorCounts:      make(map[string]int),
	}
}

func (c *Collector) RecordSuccess(attempt int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencies = append(c.latencies, duration)
	c.successByAttempt[attempt]++
	c.totalSuccess++
}

func (c *Collector) RecordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalErrors++
	errType := Classify(err)
	if errType == ErrTimeout {
		c.timeoutErrors++
	}
	c.errorCounts[errType]++
}

const (
	ErrTimeout = "Timeout"
	ErrRefused = "Conn Refused"
	ErrReset   = "Conn Reset"
	ErrDNS     = "DNS Error"
	ErrUnreach = "Unreachable"
	ErrUnknown = "Unknown"
)

// Classify buckets a dial error by its message.
func Classify(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return ErrTimeout
	case strings.Contains(msg, "refused"):
		return ErrRefused
	case strings.Contains(msg, "reset"):
		return ErrReset
	case strings.Contains(msg, "no such host"):
		return ErrDNS
	case strings.Contains(msg, "unreachable"):
		return ErrUnreach
	}
	return ErrUnknown
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Successes        int
	Failures         int
	Timeouts         int
	SuccessByAttempt map[int]int
	ErrorCounts      map[string]int
	P50, P90         time.Duration
	Average          time.Duration
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Successes:        c.totalSuccess,
		Failures:         c.totalErrors,
		Timeouts:         c.timeoutErrors,
		SuccessByAttempt: make(map[int]int, len(c.successByAttempt)),
		ErrorCounts:      make(map[string]int, len(c.errorCounts)),
	}
	for k, v := range c.successByAttempt {
		s.SuccessByAttempt[k] = v
	}
	for k, v := range c.errorCounts {
		s.ErrorCounts[k] = v
	}

	if len(c.latencies) > 0 {
		sorted := append([]time.Duration(nil), c.latencies...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		s.P50 = sorted[len(sorted)/2]
		s.P90 = sorted[int(float64(len(sorted))*0.9)]
		s.Average = average(sorted)
	}
	return s
}

func (c *Collector) PrintReport(out io.Writer, currentTimeout time.Duration, currentRetries int) {
	s := c.Snapshot()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(out, "\n📊 \033[1mREACHABILITY REPORT\033[0m")
	fmt.Fprintln(out, "────────────────────────────────────────")

	if s.Successes > 0 {
		fmt.Fprintln(w, "\033[1;36m[ CONNECT LATENCY ]\033[0m")
		fmt.Fprintf(w, "  Avg Duration:\t%v\n", s.Average)
		fmt.Fprintf(w, "  p50 (Median):\t%v\n", s.P50)
		fmt.Fprintf(w, "  p90 (Slowest 10%%):\t%v\n", s.P90)

		recTimeout := s.P90 + (500 * time.Millisecond)
		fmt.Fprintf(w, "  💡 Recommendation:\tSet 'check.timeout' to ~%s (Current: %s)\n", recTimeout.Round(time.Second), currentTimeout)
		fmt.Fprintln(w, "")

		fmt.Fprintln(w, "\033[1;36m[ RETRIES ]\033[0m")
		for i := 0; i <= currentRetries; i++ {
			count := s.SuccessByAttempt[i]
			pct := float64(count) / float64(s.Successes) * 100
			fmt.Fprintf(w, "  Succeeded on Try %d:\t%d (%.1f%%)\n", i+1, count, pct)
		}
		fmt.Fprintln(w, "")
	}

	fmt.Fprintln(w, "\033[1;36m[ ERRORS ]\033[0m")
	fmt.Fprintf(w, "  Total Failed Attempts:\t%d\n", s.Failures)
	keys := make([]string, 0, len(s.ErrorCounts))
	for k := range s.ErrorCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s:\t%d\n", k, s.ErrorCounts[k])
	}

	w.Flush()
	fmt.Fprintln(out, "")
}

func average(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return time.Duration(int64(sum) / int64(len(d)))
}
