package goid

import "runtime"

// GetGID 获取当前 goroutine 的 ID，用于日志中区分并发采集协程
// 栈信息格式: "goroutine 123 [running]:\n"
func GetGID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = len("goroutine ")
	var id uint64
	for i := prefix; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
