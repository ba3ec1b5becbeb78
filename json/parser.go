package json

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

// Parser 递归下降 JSON 解析器（节点分配自 Arena，可复用）
//
// 每次 Parse* 调用先 Reset 自己的 Arena，返回的 Node 生命周期绑定到
// Arena，下次调用 Parse* 时之前的 Node 会失效。
// 零值 Parser 可直接使用（首次解析时创建可增长 Arena，使用默认 Options）。
// 注意: Parser 不是并发安全的，并发场景请使用 AcquireParser 或 batch 包。
//
// 用法:
//
//	var p json.Parser
//	v, err := p.ParseString(`{'key': value}`)
//	fmt.Println(v.GetString("key")) // "value"
type Parser struct {
	arena *Arena
	opts  Options

	r     Reader
	sink  Sink
	cp    CopySink
	ip    InPlaceSink
	depth int // 剩余嵌套预算

	// tok 裸词暂存（避免经过 Sink）
	// 超过长度时转存到 long，long 的容量跨解析复用。
	tok  [64]byte
	long []byte
}

// NewParser 创建绑定到 a 的解析器；a 为 nil 时使用可增长 Arena
func NewParser(a *Arena, opts Options) *Parser {
	if a == nil {
		a = NewDynamicArena()
	}
	return &Parser{arena: a, opts: opts.normalize()}
}

// Arena 返回解析器使用的 Arena
func (p *Parser) Arena() *Arena {
	if p.arena == nil {
		p.arena = NewDynamicArena()
	}
	return p.arena
}

// Options 返回生效的配置
func (p *Parser) Options() Options { return p.opts.normalize() }

// Reset 清空 Arena（使之前返回的 Node 失效）
func (p *Parser) Reset() { p.Arena().Reset() }

// ─── 入口 ───

// ParseVariant 从 r 解析任意 JSON 值
//
// r 为 *MutableReader 时字符串就地解转义（零拷贝，缓冲区被改写），
// 否则字符串复制到 Arena。
func (p *Parser) ParseVariant(r Reader) (Node, error) {
	return p.parse(r, KindInvalid)
}

// ParseArray 从 r 解析数组；顶层值不是数组时返回 ErrStructural
func (p *Parser) ParseArray(r Reader) (Node, error) {
	return p.parse(r, KindArray)
}

// ParseObject 从 r 解析对象；顶层值不是对象时返回 ErrStructural
func (p *Parser) ParseObject(r Reader) (Node, error) {
	return p.parse(r, KindObject)
}

// Parse 解析只读字节切片（data 不会被修改）
func (p *Parser) Parse(data []byte) (Node, error) {
	return p.ParseVariant(NewBytesReader(data))
}

// ParseString 解析字符串
func (p *Parser) ParseString(s string) (Node, error) {
	return p.ParseVariant(NewStringReader(s))
}

// ParseInPlace 就地解析可写缓冲区（字符串引用 buf，buf 内容被改写）
func (p *Parser) ParseInPlace(buf []byte) (Node, error) {
	return p.ParseVariant(NewMutableReader(buf))
}

// ParseFrom 从拉取式数据源解析
func (p *Parser) ParseFrom(src io.ByteReader) (Node, error) {
	return p.ParseVariant(NewSourceReader(src))
}

func (p *Parser) parse(r Reader, want Kind) (Node, error) {
	p.begin(r)
	defer p.end()

	h, err := p.parseRoot(want)
	if serr := sourceErr(r); serr != nil {
		return Node{}, fmt.Errorf("%w: read source: %w", ErrUnterminated, serr)
	}
	if err != nil {
		return Node{}, err
	}
	return Node{a: p.arena, h: h}, nil
}

func (p *Parser) begin(r Reader) {
	a := p.Arena()
	a.Reset()
	p.opts = p.opts.normalize()
	p.depth = p.opts.NestingLimit
	p.r = r
	if mr, ok := r.(*MutableReader); ok {
		p.ip = InPlaceSink{r: mr, w: mr.pos, start: mr.pos}
		p.sink = &p.ip
	} else {
		p.cp = CopySink{b: a.strs}
		p.sink = &p.cp
	}
}

// end 断开对输入的引用
func (p *Parser) end() {
	p.r = nil
	p.sink = nil
	p.ip = InPlaceSink{}
}

func sourceErr(r Reader) error {
	if s, ok := r.(interface{ Err() error }); ok {
		return s.Err()
	}
	return nil
}

func (p *Parser) parseRoot(want Kind) (int32, error) {
	if err := p.skipSpace(); err != nil {
		return noSlot, err
	}
	c := p.r.Current()
	switch want {
	case KindArray:
		if c != '[' {
			return noSlot, p.unexpected("expected array")
		}
	case KindObject:
		if c != '{' {
			return noSlot, p.unexpected("expected object")
		}
	}
	h, err := p.parseValue()
	if err != nil {
		return noSlot, err
	}
	if p.opts.Dialect.Has(AllowTrailingData) {
		return h, nil
	}
	if err := p.skipSpace(); err != nil {
		return noSlot, err
	}
	if p.r.Current() != 0 {
		return noSlot, p.fail(ErrStructural, "unexpected trailing data")
	}
	return h, nil
}

// ─── 错误构造 ───

func (p *Parser) offset() int {
	if o, ok := p.r.(offsetter); ok {
		return o.Offset()
	}
	return -1
}

func (p *Parser) fail(kind error, reason string) error {
	return &ParseError{Err: kind, Offset: p.offset(), Char: p.r.Current(), Reason: reason}
}

// unexpected 当前字符不符合语法；输入末尾报告 ErrUnterminated
func (p *Parser) unexpected(reason string) error {
	if p.r.Current() == 0 {
		return p.fail(ErrUnterminated, reason)
	}
	return p.fail(ErrStructural, reason)
}

// sinkErr 为 Sink 返回的错误补全位置
func (p *Parser) sinkErr(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Offset < 0 {
		pe.Offset = p.offset()
	}
	return err
}

// ─── 空白与注释 ───

// skipSpace 跳过空白（以及方言允许时的注释）
func (p *Parser) skipSpace() error {
	r := p.r
	for {
		switch r.Current() {
		case ' ', '\t', '\n', '\r':
			r.Advance()
		case '/':
			if !p.opts.Dialect.Has(AllowComments) {
				return nil
			}
			if err := p.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// skipComment r.Current() == '/'
func (p *Parser) skipComment() error {
	r := p.r
	r.Advance()
	switch r.Current() {
	case '/':
		for c := r.Current(); c != 0 && c != '\n'; c = r.Current() {
			r.Advance()
		}
		return nil
	case '*':
		r.Advance()
		for {
			c := r.Current()
			if c == 0 {
				return p.fail(ErrUnterminated, "unterminated comment")
			}
			r.Advance()
			if c == '*' && r.Current() == '/' {
				r.Advance()
				return nil
			}
		}
	}
	return p.unexpected("invalid comment")
}

// eat 跳过空白后若当前字符为 c 则消费它
func (p *Parser) eat(c byte) (bool, error) {
	if err := p.skipSpace(); err != nil {
		return false, err
	}
	if p.r.Current() != c {
		return false, nil
	}
	p.r.Advance()
	return true, nil
}

// ─── 值 ───

func (p *Parser) isQuote(c byte) bool {
	return c == '"' || (c == '\'' && p.opts.Dialect.Has(AllowSingleQuotes))
}

// isTokenChar 裸词字符: [0-9a-zA-Z+.-]
func isTokenChar(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c == '+' || c == '-' || c == '.'
}

// parseValue 解析任意值，返回其槽位
func (p *Parser) parseValue() (int32, error) {
	if err := p.skipSpace(); err != nil {
		return noSlot, err
	}
	c := p.r.Current()
	switch {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case p.isQuote(c):
		return p.parseString()
	case isTokenChar(c):
		return p.parseScalar()
	}
	return noSlot, p.unexpected("expected value")
}

func (p *Parser) alloc(k Kind) (int32, error) {
	h, err := p.arena.alloc(k)
	if err != nil {
		return noSlot, p.fail(ErrCapacityExceeded, "no free node slots")
	}
	return h, nil
}

// parseArray p.r.Current() == '['
func (p *Parser) parseArray() (int32, error) {
	if p.depth == 0 {
		return noSlot, p.fail(ErrDepthExceeded, fmt.Sprintf("nesting limit %d", p.opts.NestingLimit))
	}
	p.depth--
	defer func() { p.depth++ }()

	p.r.Advance()
	h, err := p.alloc(KindArray)
	if err != nil {
		return noSlot, err
	}
	if ok, err := p.eat(']'); ok || err != nil {
		return h, err
	}
	for {
		child, err := p.parseValue()
		if err != nil {
			return noSlot, err
		}
		p.arena.link(h, child, "", false)

		if err := p.skipSpace(); err != nil {
			return noSlot, err
		}
		switch p.r.Current() {
		case ',':
			p.r.Advance()
		case ']':
			p.r.Advance()
			return h, nil
		default:
			return noSlot, p.unexpected("expected ',' or ']' in array")
		}
	}
}

// parseObject p.r.Current() == '{'
func (p *Parser) parseObject() (int32, error) {
	if p.depth == 0 {
		return noSlot, p.fail(ErrDepthExceeded, fmt.Sprintf("nesting limit %d", p.opts.NestingLimit))
	}
	p.depth--
	defer func() { p.depth++ }()

	p.r.Advance()
	h, err := p.alloc(KindObject)
	if err != nil {
		return noSlot, err
	}
	if ok, err := p.eat('}'); ok || err != nil {
		return h, err
	}
	for {
		if err := p.skipSpace(); err != nil {
			return noSlot, err
		}
		key, err := p.parseKey()
		if err != nil {
			return noSlot, err
		}
		ok, err := p.eat(':')
		if err != nil {
			return noSlot, err
		}
		if !ok {
			return noSlot, p.unexpected("expected ':' after object key")
		}
		child, err := p.parseValue()
		if err != nil {
			return noSlot, err
		}
		p.arena.link(h, child, key, true)

		if err := p.skipSpace(); err != nil {
			return noSlot, err
		}
		switch p.r.Current() {
		case ',':
			p.r.Advance()
		case '}':
			p.r.Advance()
			return h, nil
		default:
			return noSlot, p.unexpected("expected ',' or '}' in object")
		}
	}
}

// parseKey 对象键: 引号字符串，或方言允许时的无引号裸词
func (p *Parser) parseKey() (string, error) {
	c := p.r.Current()
	if p.isQuote(c) {
		s, _, err := p.scanQuoted()
		return s, err
	}
	if !isTokenChar(c) || !p.opts.Dialect.Has(AllowUnquotedKeys) {
		return "", p.unexpected("expected object key")
	}
	p.sink.Begin()
	for c = p.r.Current(); isTokenChar(c); c = p.r.Current() {
		p.r.Advance()
		if err := p.sink.WriteByte(c); err != nil {
			p.sink.Discard()
			return "", p.sinkErr(err)
		}
	}
	s, _ := p.sink.Commit()
	return s, nil
}

func (p *Parser) parseString() (int32, error) {
	s, borrowed, err := p.scanQuoted()
	if err != nil {
		return noSlot, err
	}
	h, err := p.alloc(KindString)
	if err != nil {
		return noSlot, err
	}
	sl := &p.arena.slots[h]
	sl.s = s
	sl.borrowed = borrowed
	return h, nil
}

// scanQuoted p.r.Current() 为开引号；结束引号必须与之相同
func (p *Parser) scanQuoted() (string, bool, error) {
	r := p.r
	q := r.Current()
	r.Advance()
	p.sink.Begin()
	for {
		c := r.Current()
		if c == 0 {
			p.sink.Discard()
			return "", false, p.fail(ErrUnterminated, "unterminated string")
		}
		r.Advance()
		if c == q {
			s, borrowed := p.sink.Commit()
			return s, borrowed, nil
		}
		var err error
		switch {
		case c == '\\':
			err = p.unescape()
		case c < 0x20 && !p.opts.Dialect.Has(AllowControlChars):
			err = p.fail(ErrStructural, "control character in string")
		default:
			if err = p.sink.WriteByte(c); err != nil {
				err = p.sinkErr(err)
			}
		}
		if err != nil {
			p.sink.Discard()
			return "", false, err
		}
	}
}

// unescape 反斜杠已消费
func (p *Parser) unescape() error {
	r := p.r
	e := r.Current()
	if e == 0 {
		return p.fail(ErrUnterminated, "unterminated escape sequence")
	}
	r.Advance()
	var out byte
	switch e {
	case '"', '\'', '\\', '/':
		out = e
	case 'b':
		out = '\b'
	case 'f':
		out = '\f'
	case 'n':
		out = '\n'
	case 'r':
		out = '\r'
	case 't':
		out = '\t'
	case 'u':
		return p.unescapeUnicode()
	default:
		if !p.opts.Dialect.Has(AllowUnknownEscapes) {
			return p.fail(ErrStructural, "invalid escape character")
		}
		out = e
	}
	if err := p.sink.WriteByte(out); err != nil {
		return p.sinkErr(err)
	}
	return nil
}

// unescapeUnicode 解析 \uXXXX（含 surrogate pair），"\u" 已消费
//
// 6 字节转义最多产生 3 字节 UTF-8，12 字节代理对产生 4 字节，
// 因此就地模式下写游标不会追上读游标。
func (p *Parser) unescapeUnicode() error {
	r1, err := p.readHex4()
	if err != nil {
		return err
	}
	if r1 >= 0xDC00 && r1 <= 0xDFFF {
		return p.fail(ErrStructural, "unexpected low surrogate")
	}
	if r1 >= 0xD800 && r1 <= 0xDBFF {
		if p.r.Current() != '\\' {
			return p.unexpected("missing low surrogate")
		}
		p.r.Advance()
		if p.r.Current() != 'u' {
			return p.unexpected("missing low surrogate")
		}
		p.r.Advance()
		r2, err := p.readHex4()
		if err != nil {
			return err
		}
		if r2 < 0xDC00 || r2 > 0xDFFF {
			return p.fail(ErrStructural, "invalid low surrogate")
		}
		r1 = 0x10000 + (r1-0xD800)*0x400 + (r2 - 0xDC00)
	}
	var buf [4]byte
	n := utf8.EncodeRune(buf[:], r1)
	for _, b := range buf[:n] {
		if err := p.sink.WriteByte(b); err != nil {
			return p.sinkErr(err)
		}
	}
	return nil
}

func (p *Parser) readHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		c := p.r.Current()
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return 0, p.unexpected("invalid unicode escape")
		}
		p.r.Advance()
	}
	return r, nil
}

// parseScalar 裸词: [0-9a-zA-Z+.-] 的最长连续串
//
// 依次判定 true/false/null、整数、浮点数；都不是时按方言回退为字符串。
func (p *Parser) parseScalar() (int32, error) {
	r := p.r
	n := 0
	long := false
	for c := r.Current(); isTokenChar(c); c = r.Current() {
		r.Advance()
		if !long && n < len(p.tok) {
			p.tok[n] = c
			n++
			continue
		}
		if !long {
			long = true
			p.long = append(p.long[:0], p.tok[:n]...)
		}
		p.long = append(p.long, c)
	}
	tok := p.tok[:n]
	if long {
		tok = p.long
	}

	switch b2s(tok) {
	case "true", "false":
		h, err := p.alloc(KindBool)
		if err != nil {
			return noSlot, err
		}
		p.arena.slots[h].b = tok[0] == 't'
		return h, nil
	case "null":
		return p.alloc(KindNull)
	}

	switch classifyNumber(tok, p.opts.Dialect.Has(AllowLooseNumbers)) {
	case shapeInt:
		if i, err := parseInt(tok); err == nil {
			h, err := p.alloc(KindInt)
			if err != nil {
				return noSlot, err
			}
			p.arena.slots[h].i = i
			return h, nil
		}
		// 溢出: 回退为浮点数
		fallthrough
	case shapeFloat:
		f, err := parseFloat(tok)
		if err != nil {
			return noSlot, p.fail(ErrStructural, "invalid number")
		}
		h, err := p.alloc(KindFloat)
		if err != nil {
			return noSlot, err
		}
		p.arena.slots[h].f = f
		return h, nil
	}

	if !p.opts.Dialect.Has(AllowBareTokens) {
		return noSlot, p.fail(ErrStructural, fmt.Sprintf("invalid literal %.32q", tok))
	}
	// 只有确定为字符串的裸词才写入 Sink（整个裸词已读完，就地写不会越过读游标）
	p.sink.Begin()
	for _, b := range tok {
		if err := p.sink.WriteByte(b); err != nil {
			p.sink.Discard()
			return noSlot, p.sinkErr(err)
		}
	}
	s, borrowed := p.sink.Commit()
	h, err := p.alloc(KindString)
	if err != nil {
		return noSlot, err
	}
	p.arena.slots[h].s = s
	p.arena.slots[h].borrowed = borrowed
	return h, nil
}

// ─── 尺寸测量 ───

// Measure 用可增长 Arena 试解析 data，返回所需的槽位数与字符串字节数
//
// 结果可直接用于 NewArena(slots, bytes) 以复制模式解析同一文档。
func Measure(data []byte, opts Options) (slots, bytes int, err error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	p.opts = opts.normalize()
	if _, err := p.Parse(data); err != nil {
		return 0, 0, err
	}
	return p.arena.Len(), p.arena.BytesLen(), nil
}

// ─── ParserPool（并发安全） ───

// ParserPool 并发安全的 Parser 池（可增长 Arena，默认 Options）
var ParserPool = sync.Pool{
	New: func() any { return NewParser(nil, Options{}) },
}

// AcquireParser 从池中获取 Parser
func AcquireParser() *Parser {
	return ParserPool.Get().(*Parser)
}

// ReleaseParser 归还 Parser 到池中（之前返回的 Node 失效）
func ReleaseParser(p *Parser) {
	p.Arena().Reset()
	p.opts = Options{}.normalize()
	ParserPool.Put(p)
}
