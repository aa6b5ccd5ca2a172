package signer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// S3Provider 走 S3 预签名协议签发下载地址，兼容 MinIO 与 AWS S3
type S3Provider struct {
	client *minio.Client
	bucket string
}

func NewS3Provider(client *minio.Client, bucket string) *S3Provider {
	return &S3Provider{client: client, bucket: bucket}
}

func (p *S3Provider) Issue(ctx context.Context, artifactKey string, ttl time.Duration) (string, error) {
	if artifactKey == "" {
		return "", fmt.Errorf("产物键不能为空")
	}
	// 报价单一律按 PDF 下发，避免浏览器探测类型
	reqParams := make(url.Values)
	reqParams.Set("response-content-type", "application/pdf")

	signed, err := p.client.PresignedGetObject(ctx, p.bucket, artifactKey, ttl, reqParams)
	if err != nil {
		return "", fmt.Errorf("对象存储预签名失败: %w", err)
	}
	return signed.String(), nil
}
