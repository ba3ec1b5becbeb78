package json

import (
	"strings"
	"unsafe"
)

// Kind JSON 值类型
type Kind uint8

const (
	KindInvalid Kind = iota // 无效节点（解析失败）
	KindNull                // null
	KindBool                // true / false
	KindInt                 // 整数
	KindFloat               // 浮点数
	KindString              // 字符串
	KindArray               // 数组
	KindObject              // 对象
)

// String 返回类型名称
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Node Arena 中一个 JSON 值的句柄（Arena 指针 + 槽位下标）
//
// Node 是值类型，可以自由复制；它不拥有任何内存，
// Arena Reset 之后所有 Node 失效。零值 Node 无效（Valid 返回 false）。
type Node struct {
	a *Arena
	h int32
}

func (n Node) slot() *slot { return &n.a.slots[n.h] }

// Valid 是否为有效节点（用于区分"合法的空值"与"解析失败"）
func (n Node) Valid() bool {
	return n.a != nil && n.h >= 0 && int(n.h) < len(n.a.slots)
}

// Kind 返回值类型
func (n Node) Kind() Kind {
	if !n.Valid() {
		return KindInvalid
	}
	return n.slot().kind
}

// Arena 返回节点所属的 Arena
func (n Node) Arena() *Arena { return n.a }

// IsNull 是否为 null
func (n Node) IsNull() bool { return n.Kind() == KindNull }

// IsObject 是否为对象
func (n Node) IsObject() bool { return n.Kind() == KindObject }

// IsArray 是否为数组
func (n Node) IsArray() bool { return n.Kind() == KindArray }

// IsNumber 是否为整数或浮点数
func (n Node) IsNumber() bool {
	k := n.Kind()
	return k == KindInt || k == KindFloat
}

// Borrowed 字符串是否引用调用方的输入缓冲区（就地解析）
func (n Node) Borrowed() bool {
	return n.Kind() == KindString && n.slot().borrowed
}

// ─── 标量取值（类型不匹配返回零值） ───

// Bool 布尔值
func (n Node) Bool() bool {
	return n.Kind() == KindBool && n.slot().b
}

// Int 整数值（浮点数截断）
func (n Node) Int() int64 {
	switch n.Kind() {
	case KindInt:
		return n.slot().i
	case KindFloat:
		return int64(n.slot().f)
	}
	return 0
}

// Float 浮点值（整数提升）
func (n Node) Float() float64 {
	switch n.Kind() {
	case KindFloat:
		return n.slot().f
	case KindInt:
		return float64(n.slot().i)
	}
	return 0
}

// Str 字符串值（非字符串返回 ""）
func (n Node) Str() string {
	if n.Kind() != KindString {
		return ""
	}
	return n.slot().s
}

// ─── 容器 ───

// Len 返回数组或对象的元素数量
func (n Node) Len() int {
	switch n.Kind() {
	case KindArray, KindObject:
		return int(n.slot().n)
	}
	return 0
}

// Index 返回数组第 i 个元素（O(i)，越界返回无效 Node）
func (n Node) Index(i int) Node {
	if n.Kind() != KindArray || i < 0 || i >= n.Len() {
		return Node{}
	}
	h := n.slot().first
	for ; i > 0; i-- {
		h = n.a.slots[h].next
	}
	return Node{a: n.a, h: h}
}

// Key 对象成员返回其键，否则返回 ""
func (n Node) Key() string {
	if !n.Valid() || !n.slot().keyed {
		return ""
	}
	return n.slot().key
}

// Member 在对象中查找 key（线性扫描，重复键返回第一个）
func (n Node) Member(key string) Node {
	if n.Kind() != KindObject {
		return Node{}
	}
	for h := n.slot().first; h != noSlot; h = n.a.slots[h].next {
		if n.a.slots[h].key == key {
			return Node{a: n.a, h: h}
		}
	}
	return Node{}
}

// Get 按路径获取嵌套值
//
//	v.Get("user", "name")  // 获取 {"user":{"name":"..."}} 中的 name
//	v.Get("items", "0")    // 获取数组第 0 个元素
func (n Node) Get(keys ...string) Node {
	for _, key := range keys {
		switch n.Kind() {
		case KindObject:
			n = n.Member(key)
		case KindArray:
			idx, ok := parseIdx(key)
			if !ok {
				return Node{}
			}
			n = n.Index(idx)
		default:
			return Node{}
		}
	}
	return n
}

// GetString 获取字符串值: v.GetString("user", "name")
func (n Node) GetString(keys ...string) string { return n.Get(keys...).Str() }

// GetInt 获取整数值
func (n Node) GetInt(keys ...string) int64 { return n.Get(keys...).Int() }

// GetFloat64 获取浮点数值
func (n Node) GetFloat64(keys ...string) float64 { return n.Get(keys...).Float() }

// GetBool 获取布尔值
func (n Node) GetBool(keys ...string) bool { return n.Get(keys...).Bool() }

// ArrayEach 遍历数组元素，返回 false 停止遍历
func (n Node) ArrayEach(fn func(i int, v Node) bool) {
	if n.Kind() != KindArray {
		return
	}
	i := 0
	for h := n.slot().first; h != noSlot; h = n.a.slots[h].next {
		if !fn(i, Node{a: n.a, h: h}) {
			return
		}
		i++
	}
}

// ObjectEach 遍历对象键值对（保持输入顺序），返回 false 停止遍历
func (n Node) ObjectEach(fn func(key string, v Node) bool) {
	if n.Kind() != KindObject {
		return
	}
	for h := n.slot().first; h != noSlot; h = n.a.slots[h].next {
		if !fn(n.a.slots[h].key, Node{a: n.a, h: h}) {
			return
		}
	}
}

// Interface 转换为 Go 原生值:
// nil / bool / int64 / float64 / string / []any / map[string]any
//
// 结果不再依赖 Arena（字符串会被复制）。重复键以最后一个为准。
func (n Node) Interface() any {
	switch n.Kind() {
	case KindBool:
		return n.Bool()
	case KindInt:
		return n.Int()
	case KindFloat:
		return n.Float()
	case KindString:
		return strings.Clone(n.Str())
	case KindArray:
		arr := make([]any, 0, n.Len())
		n.ArrayEach(func(_ int, v Node) bool {
			arr = append(arr, v.Interface())
			return true
		})
		return arr
	case KindObject:
		m := make(map[string]any, n.Len())
		n.ObjectEach(func(k string, v Node) bool {
			m[strings.Clone(k)] = v.Interface()
			return true
		})
		return m
	}
	return nil
}

// ─── 辅助函数 ───

func parseIdx(s string) (int, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n < 0 {
			return 0, false // 溢出保护（32 位平台）
		}
	}
	return n, true
}

// b2s 零拷贝 []byte → string
func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// s2b 零拷贝 string → []byte（只读）
func s2b(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
