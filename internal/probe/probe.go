// Package probe checks that the configured search URL templates answer.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/logging"
)

// SampleQuery is substituted for the query placeholder when probing.
const SampleQuery = "sprint"

// Status represents the health of one template.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	}
	return "unreachable"
}

// Target is one URL template to check.
type Target struct {
	Name string
	URL  string // filled with SampleQuery
}

// Result holds the check result for a single target.
type Result struct {
	Target     Target
	Status     Status
	StatusCode int    // 0 if the connection failed
	Error      string // readable reason when not Healthy
}

// ProgressFunc is called after each target is checked.
type ProgressFunc func(completed, total int)

// Options configure Check.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	PerSecond   float64 // request rate cap; 0 means unlimited
	OnProgress  ProgressFunc
}

// Targets lists the web prefixes followed by the default search template.
func Targets(cfg *config.Config) []Target {
	fill := func(tmpl string) string {
		return strings.ReplaceAll(tmpl, config.QueryPlaceholder, SampleQuery)
	}
	out := make([]Target, 0, len(cfg.WebPrefixes)+1)
	for _, p := range cfg.WebPrefixes {
		out = append(out, Target{Name: p.Name + " (" + p.Trigger + ")", URL: fill(p.URL)})
	}
	return append(out, Target{Name: "web search", URL: fill(cfg.SearchTemplate)})
}

// Check requests every target concurrently and returns results in target
// order.
func Check(ctx context.Context, targets []Target, opts Options) []Result {
	if len(targets) == 0 {
		return nil
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	limit := rate.Inf
	if opts.PerSecond > 0 {
		limit = rate.Limit(opts.PerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", "sprint-probe/1.0").
		SetLogger(restyLogger{})

	results := make([]Result, len(targets))
	jobs := make(chan int, len(targets))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					results[idx] = Result{Target: targets[idx], Status: Unreachable, Error: normalizeError(err.Error())}
				} else {
					results[idx] = checkTarget(ctx, client, targets[idx])
				}

				if opts.OnProgress != nil {
					progressMu.Lock()
					completed++
					opts.OnProgress(completed, len(targets))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range targets {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func checkTarget(ctx context.Context, client *resty.Client, t Target) Result {
	result := Result{Target: t}

	// HEAD first; some search engines reject it, so fall back to GET
	resp, err := client.R().SetContext(ctx).Head(t.URL)
	if err != nil || resp.StatusCode() == http.StatusMethodNotAllowed {
		resp, err = client.R().SetContext(ctx).Get(t.URL)
	}
	if err != nil {
		result.Status = Unreachable
		result.Error = normalizeError(err.Error())
		return result
	}

	result.StatusCode = resp.StatusCode()
	switch code := resp.StatusCode(); {
	case code >= 200 && code < 400:
		result.Status = Healthy
	case code == http.StatusNotFound || code == http.StatusGone:
		result.Status = Dead
		result.Error = http.StatusText(code)
	default:
		result.Status = Unreachable
		result.Error = http.StatusText(code)
	}
	return result
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Canceled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	default:
		return errStr
	}
}

// restyLogger routes client chatter to the debug log.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logging.Debug("probe client", "msg", fmt.Sprintf(format, v...))
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logging.Debug("probe client", "msg", fmt.Sprintf(format, v...))
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug("probe client", "msg", fmt.Sprintf(format, v...))
}
