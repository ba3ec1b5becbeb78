// Package json 面向内存受限目标的 Arena JSON 解析与序列化库
//
// 设计原则:
//   - Arena 分配: 所有节点来自同一个预定容量的槽位池，解析期间不调用通用分配器
//     （固定容量 Arena），节点之间用槽位下标互相引用，整体 Reset 释放
//   - 有界递归: 嵌套深度计数器在进入数组/对象前检查，防御恶意深层嵌套
//   - 零拷贝字符串: 可写缓冲区模式下在原缓冲区内就地解转义（写游标始终落后读游标）
//   - 宽松方言: 单引号、无引号键、裸词、注释等扩展由 Dialect 标志位控制
//   - 快速失败: 第一个语法或词法错误即终止，不做修复
//
// 用法:
//
//	// 固定容量 Arena（嵌入式场景）
//	a := json.NewArena(64, 512)
//	p := json.NewParser(a, json.Options{NestingLimit: 10})
//	v, err := p.ParseString(`{"name":"yak","version":1}`)
//	name := v.GetString("name")  // "yak"
//	ver  := v.GetInt("version")  // 1
//
//	// 就地解析（会改写 buf）
//	v, err = p.ParseInPlace(buf)
//
//	// 序列化
//	data := json.AppendNode(nil, v)
package json

import (
	"reflect"
	"strconv"
)

// MaxDepth 严格模式下的嵌套最大深度（防栈溢出攻击）
const MaxDepth = 512

// DefaultNestingLimit 默认嵌套深度（与嵌入式目标的栈预算匹配）
const DefaultNestingLimit = 10

// ─── 错误 ───

// 错误常量
type jsonError string

func (e jsonError) Error() string { return string(e) }

const (
	// ErrStructural 期望特定字符的位置出现了其他字符
	ErrStructural jsonError = "json: unexpected character"
	// ErrUnterminated 值尚未结束就到达输入末尾
	ErrUnterminated jsonError = "json: unexpected end of input"
	// ErrDepthExceeded 超出嵌套深度限制
	ErrDepthExceeded jsonError = "json: nesting limit exceeded"
	// ErrCapacityExceeded Arena 槽位或字符串字节耗尽
	ErrCapacityExceeded jsonError = "json: arena capacity exceeded"

	errInvalidNumber jsonError = "json: invalid number"
	errOverflow      jsonError = "json: number overflow"
)

// ParseError 解析错误（携带位置）
//
// Err 为上面四个哨兵错误之一，errors.Is(err, ErrStructural) 等判断可直接使用。
type ParseError struct {
	Err    error
	Offset int  // 出错字节偏移；Reader 不提供位置时为 -1
	Char   byte // 触发错误的字符（输入末尾为 0）
	Reason string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Offset >= 0 {
		msg += " at offset " + strconv.Itoa(e.Offset)
	}
	if e.Char != 0 {
		msg += " (" + strconv.QuoteRune(rune(e.Char)) + ")"
	}
	return msg
}

// Unwrap 返回哨兵错误
func (e *ParseError) Unwrap() error { return e.Err }

// ─── 兼容接口 ───

// Unmarshaler 反序列化接口（兼容 encoding/json.Unmarshaler）
type Unmarshaler interface {
	UnmarshalJSON([]byte) error
}

// InvalidUnmarshalError 描述传递给 Unmarshal/Decode 的无效参数。
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "json: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Pointer {
		return "json: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "json: Unmarshal(nil " + e.Type.String() + ")"
}
