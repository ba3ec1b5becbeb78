// Package pool 提供字符串字节 Arena（bump allocator）
//
// 设计：
//   - ArenaChunk 顺序切分的定长字节块
//   - Bytes 在 chunk 上维护一个"打开中"的字符串，Commit 冻结、Discard 回退
//   - 固定模式只有一个 chunk，写满即失败（嵌入式场景，解析期间零 malloc）
//   - 增长模式写满时切换新 chunk，并把未提交部分整体搬过去，保证字符串连续
package pool

import "sync"

// DefaultChunkSize 增长模式下单个 chunk 的默认大小
const DefaultChunkSize = 64 * 1024

// ArenaChunk 定长字节块
type ArenaChunk struct {
	buf    []byte
	offset int
}

func newArenaChunk(n int) *ArenaChunk {
	return &ArenaChunk{buf: make([]byte, n)}
}

// Free 剩余可用字节数
func (a *ArenaChunk) Free() int { return len(a.buf) - a.offset }

var chunkPool = sync.Pool{
	New: func() any { return newArenaChunk(DefaultChunkSize) },
}

// Bytes 字符串字节存储
//
// 同一时刻最多一个打开中的字符串（[start, cur.offset)）。
// 非并发安全，生命周期绑定到上层 Arena。
type Bytes struct {
	chunks []*ArenaChunk
	cur    int // 当前 chunk 下标
	start  int // 打开中字符串在当前 chunk 内的起点
	open   bool
	fixed  bool
	used   int // 已提交字节数
	limit  int // 固定模式容量
}

// NewFixed 创建固定容量的字节存储（n <= 0 表示不能存放任何字节）
func NewFixed(n int) *Bytes {
	if n < 0 {
		n = 0
	}
	return &Bytes{
		chunks: []*ArenaChunk{newArenaChunk(n)},
		fixed:  true,
		limit:  n,
	}
}

// NewGrowable 创建按 chunk 增长的字节存储
func NewGrowable() *Bytes {
	return &Bytes{}
}

// Begin 打开一个新字符串；之前未提交的内容被丢弃
func (b *Bytes) Begin() {
	if len(b.chunks) == 0 {
		ch := chunkPool.Get().(*ArenaChunk)
		ch.offset = 0
		b.chunks = append(b.chunks, ch)
		b.cur = 0
	}
	if b.open {
		b.Discard()
	}
	b.start = b.chunks[b.cur].offset
	b.open = true
}

// WriteByte 向打开中的字符串追加一个字节，容量耗尽返回 false
func (b *Bytes) WriteByte(c byte) bool {
	if !b.open {
		b.Begin()
	}
	ch := b.chunks[b.cur]
	if ch.offset == len(ch.buf) {
		if b.fixed || !b.grow() {
			return false
		}
		ch = b.chunks[b.cur]
	}
	ch.buf[ch.offset] = c
	ch.offset++
	return true
}

// grow 切换到下一个 chunk，把打开中的字节整体搬迁过去
func (b *Bytes) grow() bool {
	ch := b.chunks[b.cur]
	pending := ch.buf[b.start:ch.offset]
	need := 2 * (len(pending) + 1)
	if need < DefaultChunkSize {
		need = DefaultChunkSize
	}

	// 复用 Reset 后保留的 chunk
	next := b.cur + 1
	if next < len(b.chunks) && len(b.chunks[next].buf) >= need {
		b.chunks[next].offset = 0
	} else {
		var nc *ArenaChunk
		if need == DefaultChunkSize {
			nc = chunkPool.Get().(*ArenaChunk)
			nc.offset = 0
		} else {
			nc = newArenaChunk(need)
		}
		if next < len(b.chunks) {
			// 容量不够的旧 chunk 插到后面继续保留
			b.chunks = append(b.chunks, nil)
			copy(b.chunks[next+1:], b.chunks[next:])
			b.chunks[next] = nc
		} else {
			b.chunks = append(b.chunks, nc)
		}
	}
	n := copy(b.chunks[next].buf, pending)
	b.chunks[next].offset = n
	ch.offset = b.start
	b.cur = next
	b.start = 0
	return true
}

// Pending 返回打开中字符串的字节（下一次写入前有效）
func (b *Bytes) Pending() []byte {
	if !b.open {
		return nil
	}
	ch := b.chunks[b.cur]
	return ch.buf[b.start:ch.offset]
}

// Commit 冻结打开中的字符串并返回其字节
//
// 返回的切片指向 chunk 内部，Reset 之前保持不变。
func (b *Bytes) Commit() []byte {
	if !b.open {
		return nil
	}
	ch := b.chunks[b.cur]
	s := ch.buf[b.start:ch.offset:ch.offset]
	b.used += len(s)
	b.open = false
	return s
}

// Discard 回退打开中的字符串
func (b *Bytes) Discard() {
	if !b.open {
		return
	}
	b.chunks[b.cur].offset = b.start
	b.open = false
}

// Len 已提交字节数
func (b *Bytes) Len() int { return b.used }

// Cap 固定模式返回容量，增长模式返回 -1
func (b *Bytes) Cap() int {
	if b.fixed {
		return b.limit
	}
	return -1
}

// Reset 清空全部内容（保留 chunk 以便复用）
func (b *Bytes) Reset() {
	for _, ch := range b.chunks {
		ch.offset = 0
	}
	b.cur = 0
	b.start = 0
	b.open = false
	b.used = 0
}

// Release 归还默认大小的 chunk 到全局池（仅增长模式）
//
// 调用后之前返回的所有字节切片失效。
func (b *Bytes) Release() {
	if b.fixed {
		b.Reset()
		return
	}
	for _, ch := range b.chunks {
		if len(ch.buf) == DefaultChunkSize {
			chunkPool.Put(ch)
		}
	}
	b.chunks = nil
	b.cur = 0
	b.start = 0
	b.open = false
	b.used = 0
}
