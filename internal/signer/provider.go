package signer

import (
	"context"
	"time"
)

// Provider 为对象存储中的报价单产物签发限时可读 URL。
// 实现必须是无状态且并发安全的；签发失败返回错误，不返回空串。
type Provider interface {
	Issue(ctx context.Context, artifactKey string, ttl time.Duration) (string, error)
}
