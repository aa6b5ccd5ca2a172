package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options S3 兼容对象存储连接参数
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// NewMinioClient 创建对象存储客户端。预签名本身是本地计算,
// 这里仍然探一次桶, 把端点或凭证配错的问题留在启动期暴露。
func NewMinioClient(opts *Options) (*minio.Client, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("对象存储客户端创建失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("对象存储连接失败: %v", err)
	}
	if !exists {
		return nil, fmt.Errorf("存储桶不存在: %s", opts.Bucket)
	}

	return client, nil
}
