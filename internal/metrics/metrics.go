package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// 解析结果标签值，和日志里的 outcome 字段保持同一套词
const (
	OutcomeCacheHit  = "cache_hit"  // 缓存未过期, 直接复用
	OutcomeRefreshed = "refreshed"  // 就地重签并回写
	OutcomeNotFound  = "not_found"  // slug 无记录
	OutcomeRejected  = "rejected"   // slug 格式非法
	OutcomeError     = "error"      // 存储或签名故障
)

// once 保证指标只注册一次，重复注册同名指标会让 registry 直接 panic
var once sync.Once

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotelink",
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		},
		// route 用路由模板而不是真实 path，避免 label 基数爆炸
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quotelink",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时分布",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quotelink",
			Name:      "http_inflight_requests",
			Help:      "正在处理中的 HTTP 请求数",
		},
	)

	// ResolutionsTotal 按结果分类的 slug 解析次数
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotelink",
			Name:      "resolutions_total",
			Help:      "slug 解析总数, 按结果分类",
		},
		[]string{"outcome"},
	)

	// SignerIssueTotal 预签名调用次数。cache_hit 不产生签名调用，
	// 这条曲线和 resolutions_total{outcome="refreshed"} 的差值就是签名失败量
	SignerIssueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotelink",
			Name:      "signer_issue_total",
			Help:      "预签名签发总数, 按结果分类",
		},
		[]string{"result"},
	)

	SignerIssueDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "quotelink",
			Name:      "signer_issue_duration_seconds",
			Help:      "预签名签发耗时分布",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Init 注册全部指标，进程内只允许调用生效一次
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			ResolutionsTotal,
			SignerIssueTotal,
			SignerIssueDurationSeconds,
		)
	})
}
