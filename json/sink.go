package json

import "github.com/uniyakcom/embjson/internal/support/pool"

// Sink 字符串字节输出端
//
// 只在扫描字符串（以及超长裸词）内部时使用。Begin 打开一个字符串，
// WriteByte 逐字节追加（转义已由解析器解码），Commit 冻结为字符串，
// Discard 放弃未提交的字节。Sink 不校验 UTF-8。
type Sink interface {
	Begin()
	WriteByte(c byte) error
	// Pending 返回已写入但未提交的字节（下一次写入前有效）
	Pending() []byte
	// Commit 冻结当前字符串；borrowed 表示字符串引用调用方的输入缓冲区
	Commit() (s string, borrowed bool)
	Discard()
}

// ─── 就地模式 ───

// InPlaceSink 在 MutableReader 的缓冲区内、读游标之后写入
//
// 解转义只会缩短或保持长度，因此写游标 w 严格小于读游标；
// 每次写入都校验该约束，违反时返回 ErrStructural 而不是覆盖未读数据。
type InPlaceSink struct {
	r     *MutableReader
	w     int
	start int
}

// NewInPlaceSink 创建绑定到 r 的就地输出端
func NewInPlaceSink(r *MutableReader) *InPlaceSink {
	return &InPlaceSink{r: r}
}

// Begin 打开字符串
func (s *InPlaceSink) Begin() { s.start = s.w }

// WriteByte 写入一个字节
func (s *InPlaceSink) WriteByte(c byte) error {
	if s.w >= s.r.pos {
		return &ParseError{Err: ErrStructural, Offset: s.r.pos, Reason: "in-place write cursor overran read cursor"}
	}
	s.r.buf[s.w] = c
	s.w++
	return nil
}

// Pending 未提交字节
func (s *InPlaceSink) Pending() []byte { return s.r.buf[s.start:s.w] }

// Commit 冻结字符串（零拷贝，引用调用方缓冲区）
func (s *InPlaceSink) Commit() (string, bool) {
	b := s.r.buf[s.start:s.w:s.w]
	s.start = s.w
	return b2s(b), true
}

// Discard 回退写游标
func (s *InPlaceSink) Discard() { s.w = s.start }

// ─── 复制模式 ───

// CopySink 把字节追加到 Arena 的字符串存储
type CopySink struct {
	b *pool.Bytes
}

// NewCopySink 创建写入 a 的复制输出端
func NewCopySink(a *Arena) *CopySink {
	return &CopySink{b: a.strs}
}

// Begin 打开字符串
func (s *CopySink) Begin() { s.b.Begin() }

// WriteByte 写入一个字节
func (s *CopySink) WriteByte(c byte) error {
	if !s.b.WriteByte(c) {
		return &ParseError{Err: ErrCapacityExceeded, Offset: -1, Reason: "string storage exhausted"}
	}
	return nil
}

// Pending 未提交字节
func (s *CopySink) Pending() []byte { return s.b.Pending() }

// Commit 冻结字符串（Arena 持有）
func (s *CopySink) Commit() (string, bool) {
	return b2s(s.b.Commit()), false
}

// Discard 放弃未提交字节
func (s *CopySink) Discard() { s.b.Discard() }
