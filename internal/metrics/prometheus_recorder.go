package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "folio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	posts            prom.Gauge
	subscribeOutcome *prom.CounterVec
	chatRequests     *prom.CounterVec
	httpRequests     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.posts = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts_total",
			Help:      "Published posts in the last successful build",
		})
		pr.subscribeOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "subscribe_outcomes_total",
			Help:      "Newsletter subscription attempts by outcome",
		}, []string{"outcome"})
		pr.chatRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Proxied chat requests by result",
		}, []string{"result"})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by status code",
		}, []string{"code"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.posts,
			pr.subscribeOutcome, pr.chatRequests, pr.httpRequests)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPosts(n int) {
	if p == nil || p.posts == nil {
		return
	}
	p.posts.Set(float64(n))
}

func (p *PrometheusRecorder) IncSubscribeOutcome(outcome SubscribeOutcome) {
	if p == nil || p.subscribeOutcome == nil {
		return
	}
	p.subscribeOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncChatRequest(result ChatResult) {
	if p == nil || p.chatRequests == nil {
		return
	}
	p.chatRequests.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncHTTPRequest(code int) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}
