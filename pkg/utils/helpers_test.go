package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPtr(t *testing.T) {
	p := StringPtr("user-1")
	require.NotNil(t, p)
	assert.Equal(t, "user-1", *p)

	assert.Nil(t, StringPtr(""), "空串应映射为NULL列值")
}

func TestCalculateMD5(t *testing.T) {
	// 固定输入的摘要必须稳定，否则去重键失效
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CalculateMD5(nil))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", CalculateMD5([]byte("abc")))

	assert.NotEqual(t, CalculateMD5([]byte("简历A")), CalculateMD5([]byte("简历B")))
}
