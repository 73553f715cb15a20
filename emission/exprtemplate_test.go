package emission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteLikeExactAndWildcardForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty pattern", "name LIKE ''", "name == ''"},
		{"bare percent", "name LIKE '%'", "true"},
		{"contains", "name LIKE '%bob%'", "name contains 'bob'"},
		{"ends with", "name LIKE '%bob'", "name endsWith 'bob'"},
		{"starts with", "name LIKE 'bob%'", "name startsWith 'bob'"},
		{"interior wildcard", "name LIKE 'b_b%x'", "like_match(name, 'b_b%x')"},
		{"exact", "name LIKE 'bob'", "name == 'bob'"},
		{"qualified column", "t.name LIKE 'bob%'", "t.name startsWith 'bob'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, rewriteTemplates(c.in))
		})
	}
}

func TestRewriteIsNullBothForms(t *testing.T) {
	assert.Equal(t, "price == nil", rewriteTemplates("price IS NULL"))
	assert.Equal(t, "price != nil", rewriteTemplates("price IS NOT NULL"))
	assert.Equal(t, "t.price != nil && t.price > 0", rewriteTemplates("t.price IS NOT NULL && t.price > 0"))
}

func TestLikeMatchWildcards(t *testing.T) {
	assert.True(t, likeMatch("hello world", "hel%rld"))
	assert.True(t, likeMatch("hello", "h_llo"))
	assert.False(t, likeMatch("hello", "h_llox"))
	assert.True(t, likeMatch("anything", "%"))
	assert.False(t, likeMatch("", "a"))
}
