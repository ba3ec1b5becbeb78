package json

import (
	"math"
	"strconv"
)

// numberShape 数值字面量的形态
type numberShape uint8

const (
	notNumber numberShape = iota
	shapeInt
	shapeFloat
)

// classifyNumber 按语法判断 tok 是否为数值，以及是整数还是浮点数
//
// 严格模式遵循 RFC 8259: -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
// 宽松模式额外接受前导 '+'、前导零、".5" 和 "5."（尾数至少一位数字）。
func classifyNumber(tok []byte, loose bool) numberShape {
	n := len(tok)
	i := 0
	if i < n && (tok[i] == '-' || (loose && tok[i] == '+')) {
		i++
	}
	intStart := i
	for i < n && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	intDigits := i - intStart
	if !loose {
		if intDigits == 0 {
			return notNumber
		}
		if intDigits > 1 && tok[intStart] == '0' {
			return notNumber
		}
	}
	shape := shapeInt
	fracDigits := 0
	if i < n && tok[i] == '.' {
		shape = shapeFloat
		i++
		fs := i
		for i < n && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		fracDigits = i - fs
		if !loose && fracDigits == 0 {
			return notNumber
		}
	}
	if intDigits+fracDigits == 0 {
		return notNumber
	}
	if i < n && (tok[i] == 'e' || tok[i] == 'E') {
		shape = shapeFloat
		i++
		if i < n && (tok[i] == '+' || tok[i] == '-') {
			i++
		}
		es := i
		for i < n && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		if i == es {
			return notNumber
		}
	}
	if i != n {
		return notNumber
	}
	return shape
}

// parseInt 快速整数解析（避免 strconv.ParseInt 开销）
//
// 支持 '-' 与 '+' 前缀，溢出返回 errOverflow（调用方回退为浮点数）。
// 调用方保证 s 已通过 classifyNumber。
func parseInt(s []byte) (int64, error) {
	if len(s) == 0 {
		return 0, errInvalidNumber
	}
	neg := false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		i = 1
	}
	if i >= len(s) {
		return 0, errInvalidNumber
	}

	var n uint64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidNumber
		}
		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, errOverflow
		}
		n = n*10 + d
	}

	if neg {
		if n > uint64(math.MaxInt64)+1 {
			return 0, errOverflow
		}
		return -int64(n), nil
	}
	if n > uint64(math.MaxInt64) {
		return 0, errOverflow
	}
	return int64(n), nil
}

// parseFloat 与区域设置无关的浮点解析（正确舍入）
//
// 调用方保证 s 已通过 classifyNumber，因此不会出现
// strconv 额外接受的 "inf"、"nan"、十六进制等形式。
func parseFloat(s []byte) (float64, error) {
	f, err := strconv.ParseFloat(b2s(s), 64)
	if err != nil {
		// 超出范围时 strconv 返回 ±Inf 与 ErrRange，保留该值
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, nil
		}
		return 0, errInvalidNumber
	}
	return f, nil
}
