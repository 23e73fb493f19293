package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/lingua-labs/lingua-web/internal/observability/errors"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Metric names shared by every sink.
const (
	EdgeDecision        = "edge.decision"
	GuardDecision       = "guard.decision"
	AuthResolve         = "auth.resolve"
	AuthResolveDuration = "auth.resolve.duration"
	SyncResult          = "sync.result"
	HTTPRequest         = "http.request"
	HTTPRequestDuration = "http.request.duration"
	SessionsActive      = "session.active"
)

// EmitEdgeDecision counts one edge filter outcome. rule names the matching rule.
func EmitEdgeDecision(sink statsd.Sink, action, rule string) {
	if sink == nil {
		return
	}
	sink.Count(EdgeDecision, 1, map[string]string{"action": action, "rule": rule})
}

// EmitGuardDecision counts one guard evaluation.
func EmitGuardDecision(sink statsd.Sink, state string, redirected bool) {
	if sink == nil {
		return
	}
	sink.Count(GuardDecision, 1, map[string]string{
		"state":    state,
		"redirect": strconv.FormatBool(redirected),
	})
}

// ResolveMetric captures one profile resolution.
type ResolveMetric struct {
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAuthResolve emits the resolution counter and, when measured, its duration.
func EmitAuthResolve(sink statsd.Sink, in ResolveMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"result":      in.Result,
		"error_class": errorClass(in.Result, in.Err),
	}
	sink.Count(AuthResolve, 1, tags)
	if in.Duration > 0 {
		sink.Timing(AuthResolveDuration, in.Duration, map[string]string{"result": in.Result})
	}
}

// EmitSyncResult counts one external session sync.
func EmitSyncResult(sink statsd.Sink, result string, err error) {
	if sink == nil {
		return
	}
	sink.Count(SyncResult, 1, map[string]string{
		"result":      result,
		"error_class": errorClass(result, err),
	})
}

// HTTPMetric captures one served request.
type HTTPMetric struct {
	Method   string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest counts a request by method and status class.
func EmitHTTPRequest(sink statsd.Sink, in HTTPMetric) {
	if sink == nil {
		return
	}
	sink.Count(HTTPRequest, 1, map[string]string{"method": in.Method, "status": StatusClass(in.Status)})
	if in.Duration > 0 {
		sink.Timing(HTTPRequestDuration, in.Duration, map[string]string{"method": in.Method})
	}
}

// EmitActiveSessions reports the session registry size.
func EmitActiveSessions(sink statsd.Sink, n int) {
	if sink == nil {
		return
	}
	sink.Gauge(SessionsActive, float64(n), nil)
}

// StatusClass folds an HTTP status into "2xx", "3xx" and so on.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

func errorClass(result string, err error) string {
	if err == nil || result != ResultError {
		return ""
	}
	return obserrors.Classify(err)
}

// Fanout forwards every metric to each non-nil sink.
type Fanout []statsd.Sink

var _ statsd.Sink = Fanout(nil)

// Count implements statsd.Sink.
func (f Fanout) Count(name string, value int64, tags map[string]string) {
	for _, s := range f {
		if s != nil {
			s.Count(name, value, CloneTags(tags))
		}
	}
}

// Gauge implements statsd.Sink.
func (f Fanout) Gauge(name string, value float64, tags map[string]string) {
	for _, s := range f {
		if s != nil {
			s.Gauge(name, value, CloneTags(tags))
		}
	}
}

// Timing implements statsd.Sink.
func (f Fanout) Timing(name string, value time.Duration, tags map[string]string) {
	for _, s := range f {
		if s != nil {
			s.Timing(name, value, CloneTags(tags))
		}
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
