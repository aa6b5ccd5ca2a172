package base62

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet 是短码使用的完整字符表，顺序固定：先数字、再小写、最后大写。
// 这个顺序不能改动，否则已经落库的历史短码将无法再对应同一数值。
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(62)

// ErrOverflow 表示数值的最小 Base62 表示已经超出指定宽度。
// 静默截断会破坏确定性，所以这里必须报错。
var ErrOverflow = errors.New("base62: value overflows fixed width")

// Encode 将非负整数编码为定宽 Base62 字符串，不足的位数在左侧用 '0' 补齐。
func Encode(value uint64, width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("base62: 宽度必须为正数，收到 %d", width)
	}

	var buf [11]byte // uint64 在 Base62 下最长 11 位
	i := len(buf)
	for {
		i--
		buf[i] = Alphabet[value%base]
		value /= base
		if value == 0 {
			break
		}
	}

	encoded := string(buf[i:])
	if len(encoded) > width {
		return "", fmt.Errorf("%w: 最小表示需要 %d 位，宽度只有 %d 位", ErrOverflow, len(encoded), width)
	}
	return strings.Repeat("0", width-len(encoded)) + encoded, nil
}

// Decode 将 Base62 字符串还原为整数，主要给测试和排障工具使用。
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("base62: empty string")
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(Alphabet, s[i])
		if idx < 0 {
			return 0, fmt.Errorf("base62: invalid character %q", s[i])
		}
		n = n*base + uint64(idx)
	}
	return n, nil
}
