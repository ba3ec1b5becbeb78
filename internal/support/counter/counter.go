// Package counter 提供并发解析统计用的分片计数器
package counter

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// maxSlots 最大 slot 数量（覆盖常见 GOMAXPROCS）
const maxSlots = 256

// Counter 分片无竞争计数器（多个 worker 同时计数时避免 atomic 争用）
// 使用 goroutine 栈地址哈希分散写入到不同 cache line
type Counter struct {
	slots [maxSlots]slot
	mask  int
}

type slot struct {
	n atomic.Int64
	_ [56]byte // cache line padding
}

// New 创建计数器
// slot 数为 GOMAXPROCS 向上取 2 的幂，最少 8 个。
func New() *Counter {
	n := runtime.GOMAXPROCS(0)
	sz := 1
	for sz < n {
		sz *= 2
	}
	if sz < 8 {
		sz = 8
	}
	if sz > maxSlots {
		sz = maxSlots
	}
	return &Counter{mask: sz - 1}
}

// Add 原子加法（按调用方 goroutine 栈地址选择 slot）
//
//go:nosplit
func (c *Counter) Add(delta int64) {
	var x uintptr
	// 右移 13 位: goroutine 最小栈 8KB = 2^13
	id := int(uintptr(unsafe.Pointer(&x)) >> 13)
	c.slots[id&c.mask].n.Add(delta)
}

// Load 读取所有 slot 的累计值
func (c *Counter) Load() int64 {
	var sum int64
	for i := 0; i <= c.mask; i++ {
		sum += c.slots[i].n.Load()
	}
	return sum
}

// Reset 清零（与并发 Add 同时调用时结果不精确）
func (c *Counter) Reset() {
	for i := 0; i <= c.mask; i++ {
		c.slots[i].n.Store(0)
	}
}
