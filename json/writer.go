package json

import (
	"math"
	"strconv"
	"sync"
)

// Writer 紧凑 JSON 序列化器（直接追加到 []byte）
//
// 设计特点:
//   - 直接向 []byte 追加 JSON 字节，无中间 io.Writer 层
//   - 支持 pool 复用（AcquireWriter/ReleaseWriter）
//   - 既可用回调构建 Object/Array，也可整棵写出 Arena 中的 Node 树
//   - 浮点数总是带小数点或指数，重新解析后仍为 KindFloat
//
// 用法:
//
//	w := json.AcquireWriter()
//	defer json.ReleaseWriter(w)
//	w.Object(func(w *json.Writer) {
//	    w.Field("sensor", "dpr")
//	    w.FieldFloat("value", 3.3)
//	})
//	data := w.Bytes() // {"sensor":"dpr","value":3.3}
type Writer struct {
	buf []byte
}

// ─── Pool ───

var writerPool = sync.Pool{
	New: func() any { return &Writer{buf: make([]byte, 0, 256)} },
}

// AcquireWriter 从池中获取 Writer
func AcquireWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.buf = w.buf[:0]
	return w
}

// ReleaseWriter 归还 Writer 到池中
func ReleaseWriter(w *Writer) {
	// 保留小 buffer，释放大 buffer（防内存泄漏）
	if cap(w.buf) > 1<<16 {
		w.buf = make([]byte, 0, 256)
	}
	writerPool.Put(w)
}

// ─── 结果获取 ───

// Bytes 返回已生成的 JSON 字节（生命周期绑定到 Writer）
func (w *Writer) Bytes() []byte { return w.buf }

// String 返回已生成的 JSON 字符串（复制）
func (w *Writer) String() string { return string(w.buf) }

// Len 返回已写入的字节数
func (w *Writer) Len() int { return len(w.buf) }

// Reset 重置 Writer 以复用
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// ─── 对象构建 ───

// Object 构建 JSON 对象 {}
func (w *Writer) Object(fn func(w *Writer)) {
	w.buf = append(w.buf, '{')
	mark := len(w.buf)
	fn(w)
	// Field* 末尾写入的逗号在这里替换为 '}'
	if len(w.buf) > mark && w.buf[len(w.buf)-1] == ',' {
		w.buf[len(w.buf)-1] = '}'
	} else {
		w.buf = append(w.buf, '}')
	}
}

// Field 写入字符串字段: "key":"value",
func (w *Writer) Field(key, value string) {
	w.key(key)
	w.buf = appendQuoted(w.buf, value)
	w.buf = append(w.buf, ',')
}

// FieldInt 写入整数字段: "key":123,
func (w *Writer) FieldInt(key string, value int64) {
	w.key(key)
	w.buf = appendInt(w.buf, value)
	w.buf = append(w.buf, ',')
}

// FieldFloat 写入浮点数字段: "key":1.5,
func (w *Writer) FieldFloat(key string, value float64) {
	w.key(key)
	w.buf = appendFloat(w.buf, value)
	w.buf = append(w.buf, ',')
}

// FieldBool 写入布尔字段: "key":true,
func (w *Writer) FieldBool(key string, value bool) {
	w.key(key)
	w.buf = appendBool(w.buf, value)
	w.buf = append(w.buf, ',')
}

// FieldNull 写入 null 字段: "key":null,
func (w *Writer) FieldNull(key string) {
	w.key(key)
	w.buf = append(w.buf, "null,"...)
}

// FieldNode 写入 Node 字段: "key":<node>,
func (w *Writer) FieldNode(key string, n Node) {
	w.key(key)
	w.buf = AppendNode(w.buf, n)
	w.buf = append(w.buf, ',')
}

// FieldObject 写入嵌套对象字段: "key":{...},
func (w *Writer) FieldObject(key string, fn func(w *Writer)) {
	w.key(key)
	w.Object(fn)
	w.buf = append(w.buf, ',')
}

// FieldArray 写入数组字段: "key":[...],
func (w *Writer) FieldArray(key string, fn func(w *Writer)) {
	w.key(key)
	w.Array(fn)
	w.buf = append(w.buf, ',')
}

func (w *Writer) key(k string) {
	w.buf = appendQuoted(w.buf, k)
	w.buf = append(w.buf, ':')
}

// ─── 数组构建 ───

// Array 构建 JSON 数组 []
func (w *Writer) Array(fn func(w *Writer)) {
	w.buf = append(w.buf, '[')
	mark := len(w.buf)
	fn(w)
	if len(w.buf) > mark && w.buf[len(w.buf)-1] == ',' {
		w.buf[len(w.buf)-1] = ']'
	} else {
		w.buf = append(w.buf, ']')
	}
}

// Item 写入数组字符串元素: "value",
func (w *Writer) Item(value string) {
	w.buf = appendQuoted(w.buf, value)
	w.buf = append(w.buf, ',')
}

// ItemInt 写入数组整数元素: 123,
func (w *Writer) ItemInt(value int64) {
	w.buf = appendInt(w.buf, value)
	w.buf = append(w.buf, ',')
}

// ItemFloat 写入数组浮点数元素
func (w *Writer) ItemFloat(value float64) {
	w.buf = appendFloat(w.buf, value)
	w.buf = append(w.buf, ',')
}

// ItemNode 写入数组 Node 元素
func (w *Writer) ItemNode(n Node) {
	w.buf = AppendNode(w.buf, n)
	w.buf = append(w.buf, ',')
}

// ─── Node 序列化 ───

// Node 写出整棵 Node 树
func (w *Writer) Node(n Node) { w.buf = AppendNode(w.buf, n) }

// AppendNode 把 n 的紧凑 JSON 追加到 dst（无效 Node 写为 null）
func AppendNode(dst []byte, n Node) []byte {
	switch n.Kind() {
	case KindBool:
		return appendBool(dst, n.Bool())
	case KindInt:
		return appendInt(dst, n.Int())
	case KindFloat:
		return appendFloat(dst, n.Float())
	case KindString:
		return appendQuoted(dst, n.Str())
	case KindArray:
		dst = append(dst, '[')
		n.ArrayEach(func(i int, v Node) bool {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendNode(dst, v)
			return true
		})
		return append(dst, ']')
	case KindObject:
		dst = append(dst, '{')
		first := true
		n.ObjectEach(func(k string, v Node) bool {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendQuoted(dst, k)
			dst = append(dst, ':')
			dst = AppendNode(dst, v)
			return true
		})
		return append(dst, '}')
	}
	return append(dst, "null"...)
}

// MarshalJSON 实现 encoding/json.Marshaler
func (n Node) MarshalJSON() ([]byte, error) {
	return AppendNode(nil, n), nil
}

// ─── 字符串转义 ───

// appendQuoted 写入带引号和转义的 JSON 字符串
//
// 优化: 先扫描是否需要转义（大部分字符串不需要）
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')

	needsEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		dst = append(dst, s...)
		return append(dst, '"')
	}

	// 慢速路径: 逐字符转义
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\b':
			dst = append(dst, '\\', 'b')
		case c == '\f':
			dst = append(dst, '\\', 'f')
		case c < 0x20:
			// 控制字符: \u00XX
			dst = append(dst, '\\', 'u', '0', '0', hexDigit[c>>4], hexDigit[c&0xF])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

var hexDigit = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// ─── 数字序列化 ───

func appendBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, "true"...)
	}
	return append(dst, "false"...)
}

// appendInt 快速 int64 追加
func appendInt(dst []byte, v int64) []byte {
	if v >= 0 && v < 100 {
		return appendSmallInt(dst, int(v))
	}
	return strconv.AppendInt(dst, v, 10)
}

// appendSmallInt 小整数快速路径（0-99）
func appendSmallInt(dst []byte, v int) []byte {
	if v < 10 {
		return append(dst, byte('0'+v))
	}
	return append(dst, byte('0'+v/10), byte('0'+v%10))
}

// appendFloat 写入浮点数（最短可往返表示）
//
// JSON 不支持 NaN/Inf，输出 null；整数值补 ".0"，使类型在往返后保持不变。
func appendFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return dst
		}
	}
	return append(dst, '.', '0')
}
