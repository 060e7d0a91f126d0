package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "whitespace only", raw: "   \t ", want: []string{}},
		{name: "single", raw: "리뷰/요청사항", want: []string{"리뷰/요청사항"}},
		{name: "trims segments", raw: " 리뷰/x ,  업셀/y", want: []string{"리뷰/x", "업셀/y"}},
		{name: "drops empty segments", raw: ",리뷰/x,, ,업셀/y,", want: []string{"리뷰/x", "업셀/y"}},
		{name: "keeps duplicates and order", raw: "b,a,b", want: []string{"b", "a", "b"}},
		{name: "inner spaces kept", raw: "단순 문의 , 기타", want: []string{"단순 문의", "기타"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestParseTags_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"a",
		" a , b ,, c ",
		"리뷰/요청사항/기능문의, 업셀/도입문의 ,푸시",
		",,,",
	}

	for _, raw := range inputs {
		first := ParseTags(raw)
		again := ParseTags(strings.Join(first, TagDelimiter))
		assert.Equal(t, first, again, "raw=%q", raw)
	}
}
