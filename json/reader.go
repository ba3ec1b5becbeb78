package json

import (
	"errors"
	"io"
)

// Reader 逐字节拉取的输入游标
//
// 输入末尾 Current 返回 0；缓冲区中的 NUL 字节同样视为输入结束
// （与以 NUL 结尾的 C 字符串语义一致）。Reader 必须以指针形式使用，
// 解析中途复制会导致位置失步。
type Reader interface {
	// Current 返回当前字符，不移动游标
	Current() byte
	// Advance 前进一个字符（已到末尾时为 no-op）
	Advance()
	// HasNext 是否仍有输入
	HasNext() bool
}

// offsetter 可选接口: 提供当前字节偏移（用于错误定位）
type offsetter interface {
	Offset() int
}

// ─── 可写缓冲区 ───

// MutableReader 调用方持有的可写缓冲区游标
//
// 解析字符串时会在同一缓冲区内就地解转义，解析后 buf 内容被改写。
type MutableReader struct {
	buf []byte
	pos int
}

// NewMutableReader 创建可写缓冲区游标
func NewMutableReader(buf []byte) *MutableReader {
	return &MutableReader{buf: buf}
}

// Current 当前字符
func (r *MutableReader) Current() byte {
	if r.pos < len(r.buf) {
		return r.buf[r.pos]
	}
	return 0
}

// Advance 前进一个字符
func (r *MutableReader) Advance() {
	if r.pos < len(r.buf) && r.buf[r.pos] != 0 {
		r.pos++
	}
}

// HasNext 是否仍有输入
func (r *MutableReader) HasNext() bool { return r.Current() != 0 }

// Offset 当前字节偏移
func (r *MutableReader) Offset() int { return r.pos }

// ─── 只读缓冲区 ───

// BytesReader 只读缓冲区/字符串游标（字符串内容复制到 Arena）
type BytesReader struct {
	s   string
	pos int
}

// NewBytesReader 创建只读字节游标（零拷贝引用 b，b 不会被修改）
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{s: b2s(b)}
}

// NewStringReader 创建字符串游标
func NewStringReader(s string) *BytesReader {
	return &BytesReader{s: s}
}

// Current 当前字符
func (r *BytesReader) Current() byte {
	if r.pos < len(r.s) {
		return r.s[r.pos]
	}
	return 0
}

// Advance 前进一个字符
func (r *BytesReader) Advance() {
	if r.pos < len(r.s) && r.s[r.pos] != 0 {
		r.pos++
	}
}

// HasNext 是否仍有输入
func (r *BytesReader) HasNext() bool { return r.Current() != 0 }

// Offset 当前字节偏移
func (r *BytesReader) Offset() int { return r.pos }

// ─── 拉取式数据源 ───

// SourceReader 基于 io.ByteReader 的游标（无连续缓冲区，如串口、文件流）
//
// 单字符预读缓存在 cur 中。io.EOF 之外的读错误会被保留，通过 Err 返回。
type SourceReader struct {
	src  io.ByteReader
	cur  byte
	pos  int
	err  error
	done bool
	init bool
}

// NewSourceReader 创建拉取式游标
func NewSourceReader(src io.ByteReader) *SourceReader {
	return &SourceReader{src: src}
}

func (r *SourceReader) fill() {
	r.init = true
	if r.done {
		r.cur = 0
		return
	}
	c, err := r.src.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		r.done = true
		r.cur = 0
		return
	}
	if c == 0 {
		r.done = true
	}
	r.cur = c
}

// Current 当前字符
func (r *SourceReader) Current() byte {
	if !r.init {
		r.fill()
	}
	return r.cur
}

// Advance 前进一个字符
func (r *SourceReader) Advance() {
	if r.Current() == 0 {
		return
	}
	r.pos++
	r.fill()
}

// HasNext 是否仍有输入
func (r *SourceReader) HasNext() bool { return r.Current() != 0 }

// Offset 已消费的字节数
func (r *SourceReader) Offset() int { return r.pos }

// Err 返回底层数据源的读错误（io.EOF 不算错误）
func (r *SourceReader) Err() error { return r.err }
