// Package metrics 提供 Prometheus 指标收集与 /metrics 暴露
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 业务层使用的指标接口
type Recorder interface {
	RecordRequest(method, route string, status int, latency time.Duration)
	RecordPostCreated()
	RecordLike(liked bool)
	RecordReport()
}

// Collector Prometheus 实现
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	postsCreated prometheus.Counter
	likes        *prometheus.CounterVec
	reports      prometheus.Counter
}

// NewCollector 创建 Collector 并注册到指定 Registerer
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "musatoku_http_requests_total",
			Help: "按路由与状态码统计的 HTTP 请求数",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "musatoku_http_request_duration_seconds",
			Help:    "HTTP 请求处理耗时（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musatoku_posts_created_total",
			Help: "创建的投稿数",
		}),
		likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "musatoku_like_transitions_total",
			Help: "点赞状态实际发生变化的次数",
		}, []string{"action"}),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musatoku_reports_created_total",
			Help: "提交的举报数",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.postsCreated, c.likes, c.reports)
	return c
}

// RecordRequest 记录一次 HTTP 请求
func (c *Collector) RecordRequest(method, route string, status int, latency time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// RecordPostCreated 记录投稿创建
func (c *Collector) RecordPostCreated() { c.postsCreated.Inc() }

// RecordLike 记录点赞/取消点赞
func (c *Collector) RecordLike(liked bool) {
	action := "unlike"
	if liked {
		action = "like"
	}
	c.likes.WithLabelValues(action).Inc()
}

// RecordReport 记录举报
func (c *Collector) RecordReport() { c.reports.Inc() }

// Handler 返回 Prometheus 抓取用的 HTTP 处理器
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop 不做任何记录的 Recorder，用于测试与关闭指标时
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordPostCreated()                               {}
func (Nop) RecordLike(bool)                                  {}
func (Nop) RecordReport()                                    {}
