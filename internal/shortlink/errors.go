package shortlink

import "errors"

// 对外暴露的错误类别。内部错误一律包装在这些哨兵之后，
// HTTP 层用 errors.Is 翻译成状态码，细节只进日志不出边界。
var (
	ErrValidation       = errors.New("输入校验失败")
	ErrNotFound         = errors.New("短链不存在")
	ErrStoreUnavailable = errors.New("存储暂不可用")
	ErrSigner           = errors.New("签名服务失败")
	ErrSlugCollision    = errors.New("slug 已被其他文档占用")
)
