package signer

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// LocalProvider 用 HMAC-SHA256 自签下载地址，开发环境没有对象存储时使用。
// 签出的 URL 指向本服务的 /artifacts 路由，由同一把密钥校验。
type LocalProvider struct {
	baseURL string
	secret  []byte

	nowFn func() time.Time // 测试注入
}

func NewLocalProvider(baseURL, secret string) *LocalProvider {
	return &LocalProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		secret:  []byte(secret),
		nowFn:   time.Now,
	}
}

func (p *LocalProvider) Issue(ctx context.Context, artifactKey string, ttl time.Duration) (string, error) {
	if artifactKey == "" {
		return "", fmt.Errorf("产物键不能为空")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("签名有效期必须为正, 实际 %s", ttl)
	}
	expires := p.nowFn().Add(ttl).Unix()

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", p.sign(artifactKey, expires))
	return fmt.Sprintf("%s/artifacts/%s?%s", p.baseURL, artifactKey, q.Encode()), nil
}

// Verify 校验 /artifacts 请求上携带的签名与有效期
func (p *LocalProvider) Verify(artifactKey string, expires int64, signature string) bool {
	if expires < p.nowFn().Unix() {
		return false
	}
	want := p.sign(artifactKey, expires)
	return hmac.Equal([]byte(want), []byte(signature))
}

func (p *LocalProvider) sign(artifactKey string, expires int64) string {
	mac := hmac.New(sha256.New, p.secret)
	fmt.Fprintf(mac, "%s\n%d", artifactKey, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
