package stats

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mario-aq/quotelink/internal/model"
	"github.com/mario-aq/quotelink/internal/store"
)

// 解析事件的结果分类
const (
	OutcomeResolved = "resolved"  // 成功跳转
	OutcomeNotFound = "not_found" // slug 无记录
	OutcomeError    = "error"     // 存储或签名故障
)

// Event 一次解析的现场信息, 由 HTTP 层在返回响应前投递
type Event struct {
	Slug      string
	Outcome   string
	ClientIP  string
	UserAgent string
	Referer   string
	At        time.Time
}

// Recorder 异步消化解析事件：累加命中计数、写审计行、滚动当日 Redis 计数。
// 全部落库动作都在单独的 goroutine 里做，绝不阻塞跳转请求。
type Recorder struct {
	store  store.LinkStore
	db     *gorm.DB
	rdb    *redis.Client // 可以为 nil, 此时跳过当日计数
	logger *zap.Logger

	ch     chan Event
	closed atomic.Bool
	wg     sync.WaitGroup
}

func NewRecorder(st store.LinkStore, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Recorder {
	return &Recorder{
		store:  st,
		db:     db,
		rdb:    rdb,
		logger: logger,
		ch:     make(chan Event, 1024),
	}
}

// Start 启动消费协程
func (r *Recorder) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for ev := range r.ch {
			r.apply(ev)
		}
	}()
}

// Stop 关闭通道并等队列清空, 只允许调用一次生效
func (r *Recorder) Stop() {
	if r.closed.CompareAndSwap(false, true) {
		close(r.ch)
	}
	r.wg.Wait()
}

// Record 投递一条事件。队列满或已停止就直接丢弃：
// 统计丢几条无所谓, 不值得让跳转排队
func (r *Recorder) Record(ev Event) {
	if r.closed.Load() {
		return
	}
	select {
	case r.ch <- ev:
	default:
	}
}

func (r *Recorder) apply(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if ev.Outcome == OutcomeResolved {
		if err := r.store.IncrementHits(ctx, ev.Slug); err != nil {
			r.logger.Warn("累加命中计数失败", zap.String("slug", ev.Slug), zap.Error(err))
		}
		r.bumpDaily(ctx, ev.At)
	}

	record := model.ResolutionEvent{
		Slug:      ev.Slug,
		Outcome:   ev.Outcome,
		ClientIP:  ev.ClientIP,
		UserAgent: ev.UserAgent,
		Referer:   ev.Referer,
		CreatedAt: ev.At,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		r.logger.Warn("写入解析审计记录失败", zap.String("slug", ev.Slug), zap.Error(err))
	}
}

// bumpDaily 滚动当日成功解析计数, 首次写入时挂 48 小时过期
func (r *Recorder) bumpDaily(ctx context.Context, at time.Time) {
	if r.rdb == nil {
		return
	}
	key := dayKey(at)
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		r.logger.Warn("滚动当日计数失败", zap.String("key", key), zap.Error(err))
		return
	}
	if n == 1 {
		r.rdb.Expire(ctx, key, 48*time.Hour)
	}
}

// TodayCount 读当日成功解析数, Redis 不可用或键不存在都按 0 算
func (r *Recorder) TodayCount(ctx context.Context) int64 {
	if r.rdb == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	n, err := r.rdb.Get(ctx, dayKey(time.Now())).Int64()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("读取当日计数失败", zap.Error(err))
		}
		return 0
	}
	return n
}

func dayKey(t time.Time) string {
	return "quotelink:stats:resolved:" + t.Format("2006-01-02")
}
