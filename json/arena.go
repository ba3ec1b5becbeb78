package json

import (
	"unsafe"

	"github.com/uniyakcom/embjson/internal/support/pool"
)

// Arena 节点槽位池
//
// 所有 Node 都从 Arena 的槽位分配，数组/对象通过槽位下标（非指针）链接子节点，
// 子节点下标总是大于父节点，因此节点图天然无环。
// 槽位只会单调分配，不能单独释放，只能 Reset 整体清空；Reset 后所有
// 先前返回的 Node 失效。
//
// 固定容量 Arena 在创建时一次性分配全部槽位和字符串字节，
// 解析过程中不再调用通用分配器；槽位或字节耗尽返回 ErrCapacityExceeded。
//
// Reset 将长度置 0 复用底层数组。
// 注意: Arena 不是并发安全的。
type Arena struct {
	slots []slot
	limit int // 槽位容量；-1 表示可增长
	strs  *pool.Bytes
}

// slot 固定大小的节点槽位（足以容纳最大的变体: 对象条目）
type slot struct {
	key      string // 对象条目的键
	s        string // KindString
	i        int64  // KindInt
	f        float64
	first    int32 // 数组/对象: 首个子节点
	last     int32 // 数组/对象: 末尾子节点（O(1) 追加）
	next     int32 // 兄弟链表
	n        int32 // 子节点数量
	kind     Kind
	b        bool
	keyed    bool // 已挂载到对象下
	owned    bool // 已挂载到容器下
	borrowed bool // 字符串引用调用方缓冲区
}

const noSlot int32 = -1

// SlotSize 单个节点槽位占用的字节数（用于估算 Arena 内存）
const SlotSize = int(unsafe.Sizeof(slot{}))

// NewArena 创建固定容量 Arena: slots 个节点槽位，bytes 字节的字符串存储
func NewArena(slots, bytes int) *Arena {
	if slots < 0 {
		slots = 0
	}
	return &Arena{
		slots: make([]slot, 0, slots),
		limit: slots,
		strs:  pool.NewFixed(bytes),
	}
}

// NewDynamicArena 创建可增长 Arena（槽位按 append 增长，字符串按 chunk 增长）
func NewDynamicArena() *Arena {
	return &Arena{
		limit: -1,
		strs:  pool.NewGrowable(),
	}
}

// Reset 清空全部节点（保留底层内存）
func (a *Arena) Reset() {
	a.slots = a.slots[:0]
	a.strs.Reset()
}

// Release 归还可增长 Arena 占用的字符串 chunk（之后 Arena 仍可继续使用）
func (a *Arena) Release() {
	a.slots = a.slots[:0]
	a.strs.Release()
}

// Len 已分配槽位数（高水位）
func (a *Arena) Len() int { return len(a.slots) }

// Cap 槽位容量；可增长 Arena 返回 -1
func (a *Arena) Cap() int { return a.limit }

// BytesLen 已提交的字符串字节数
func (a *Arena) BytesLen() int { return a.strs.Len() }

// BytesCap 字符串字节容量；可增长 Arena 返回 -1
func (a *Arena) BytesCap() int { return a.strs.Cap() }

// Fixed 是否为固定容量 Arena
func (a *Arena) Fixed() bool { return a.limit >= 0 }

// alloc 分配一个槽位
func (a *Arena) alloc(k Kind) (int32, error) {
	if a.limit >= 0 && len(a.slots) >= a.limit {
		return noSlot, ErrCapacityExceeded
	}
	if cap(a.slots) > len(a.slots) {
		a.slots = a.slots[:len(a.slots)+1]
	} else {
		a.slots = append(a.slots, slot{})
	}
	h := int32(len(a.slots) - 1)
	a.slots[h] = slot{kind: k, first: noSlot, last: noSlot, next: noSlot}
	return h, nil
}

// link 把 child 挂到容器 parent 的末尾
func (a *Arena) link(parent, child int32, key string, keyed bool) {
	p := &a.slots[parent]
	c := &a.slots[child]
	c.key = key
	c.keyed = keyed
	c.owned = true
	if p.last == noSlot {
		p.first = child
	} else {
		a.slots[p.last].next = child
	}
	p.last = child
	p.n++
}
