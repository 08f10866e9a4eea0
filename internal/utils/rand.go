package utils

import (
	"math/rand"
	"time"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const (
	letterIdxBits = 6                    // 63 个字符用 6 bit 表示
	letterIdxMask = 1<<letterIdxBits - 1 // 低 6 bit 全 1
	letterIdxMax  = 63 / letterIdxBits   // 一个 Int63 能切出的索引数
)

var randSrc = rand.NewSource(time.Now().UnixNano())

// RandStringBytesMaskImpr 生成 n 位随机短 ID，用作对外可见的资源标识
func RandStringBytesMaskImpr(n int) string {
	b := make([]byte, n)
	for i, cache, remain := n-1, randSrc.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = randSrc.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	return string(b)
}
