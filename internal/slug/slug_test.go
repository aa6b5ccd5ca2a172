package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^[0-9a-zA-Z]{8}$`)

// 固定语料，覆盖常见的文档 ID 形态
var corpus = []struct {
	documentID string
	locale     string
}{
	{"doc-0001", "en"},
	{"doc-0001", "es"},
	{"doc-0002", "en"},
	{"8f14e45f-ceea-467f-a1d6-8aefc2b9ad3c", "en"},
	{"8f14e45f-ceea-467f-a1d6-8aefc2b9ad3c", "fr"},
	{"quote/2026/Q1/ACME-00042", "de"},
	{"quote/2026/Q1/ACME-00042", "pt-BR"},
	{"", "en"},
	{"doc-0001", ""},
}

func TestGenerateDeterministic(t *testing.T) {
	for _, c := range corpus {
		first := Generate(c.documentID, c.locale)
		second := Generate(c.documentID, c.locale)
		assert.Equal(t, first, second, "同样的输入必须得到同样的短码: %q/%q", c.documentID, c.locale)
	}
}

func TestGenerateShape(t *testing.T) {
	for _, c := range corpus {
		s := Generate(c.documentID, c.locale)
		assert.Len(t, s, Length)
		assert.Regexp(t, slugPattern, s)
	}
}

func TestGenerateLocaleSensitive(t *testing.T) {
	// 同一文档的不同语言版本必须各有各的短码（抽查，非数学证明）
	assert.NotEqual(t, Generate("doc-0001", "en"), Generate("doc-0001", "es"))
	assert.NotEqual(t, Generate("doc-0001", "en"), Generate("doc-0001", "fr"))
	assert.NotEqual(t, Generate("quote/2026/Q1/ACME-00042", "de"), Generate("quote/2026/Q1/ACME-00042", "pt-BR"))
}

func TestGenerateDocumentSensitive(t *testing.T) {
	assert.NotEqual(t, Generate("doc-0001", "en"), Generate("doc-0002", "en"))
	assert.NotEqual(t, Generate("doc-0001", "en"), Generate("doc-00011", "en"))
}

func TestGenerateSeparatorDisambiguates(t *testing.T) {
	// 拼接歧义：("ab","c") 与 ("a","bc") 不应落到同一个短码
	assert.NotEqual(t, Generate("ab", "c"), Generate("a", "bc"))
}

func TestGenerateCorpusCollisionFree(t *testing.T) {
	seen := make(map[string]string, len(corpus))
	for _, c := range corpus {
		s := Generate(c.documentID, c.locale)
		key := c.documentID + "\x00" + c.locale
		if prev, ok := seen[s]; ok {
			t.Fatalf("语料内出现短码冲突: %s 同时来自 %q 和 %q", s, prev, key)
		}
		seen[s] = key
	}
}
