package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// StringPtr 返回字符串的指针，空串返回nil。
// 可空的数据库列（如匿名检索日志的user_id）用nil表达缺省。
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CalculateMD5 计算字节内容的MD5十六进制摘要，用作上传文件的去重键
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
