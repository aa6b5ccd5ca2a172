package slug

import (
	"github.com/cespare/xxhash/v2"

	"github.com/mario-aq/quotelink/pkg/base62"
)

// Length 是对外短码的固定长度
const Length = 8

// slugSpace = 62^8，即 8 位 Base62 的完整值空间。
// 64 位哈希对它取模之后再编码，必然落在 8 位以内。
const slugSpace = uint64(218340105584896)

// Generate 由 (documentID, locale) 推导确定性短码。
// 相同输入永远得到相同短码：纯函数，无随机数，不依赖机器状态，
// 因此任何实例在任何时刻重算出来的短码都与库里已存的一致。
//
// 输入用 ":" 拼接，避免 ("ab","c") 和 ("a","bc") 撞到同一个摘要。
//
// 冲突概率由 62^8 ≈ 2.18e14 值空间上的生日界控制，对预期的文档量级
// 足够低，但没有从构造上排除；Lifecycle.Upsert 落库前会做兜底比对。
func Generate(documentID, locale string) string {
	sum := xxhash.Sum64String(documentID + ":" + locale)
	code, err := base62.Encode(sum%slugSpace, Length)
	if err != nil {
		// 取模后的值一定放得下，走到这里只能是编码器本身被改坏了
		panic(err)
	}
	return code
}
