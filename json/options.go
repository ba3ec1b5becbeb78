package json

// Dialect 语法方言标志位
//
// Lenient 对应嵌入式 JSON 方言（单引号、无引号键、裸词回退为字符串、注释），
// Strict 对应 RFC 8259。
type Dialect uint16

const (
	AllowSingleQuotes   Dialect = 1 << iota // 'x' 形式的字符串与键
	AllowUnquotedKeys                       // {key: 1}
	AllowBareTokens                         // 无法识别的裸词回退为字符串
	AllowComments                           // // 行注释与 /* */ 块注释
	AllowTrailingData                       // 根值之后的剩余输入被忽略
	AllowControlChars                       // 字符串内的原始控制字符
	AllowUnknownEscapes                     // 未知转义 \q 按字面保留 q
	AllowLooseNumbers                       // +1、.5、5.、前导零

	// dialectSet 标记"显式设置过"，使 Strict 与零值区分
	dialectSet Dialect = 1 << 15
)

const (
	// Lenient 全部扩展
	Lenient = AllowSingleQuotes | AllowUnquotedKeys | AllowBareTokens |
		AllowComments | AllowTrailingData | AllowControlChars |
		AllowUnknownEscapes | AllowLooseNumbers | dialectSet

	// Strict 不启用任何扩展；可与单个标志组合，例如 Strict|AllowComments
	Strict = dialectSet
)

// Has 是否启用某个标志
func (d Dialect) Has(f Dialect) bool { return d&f != 0 }

// String 返回方言名称
func (d Dialect) String() string {
	switch d {
	case Lenient, 0:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return "custom"
	}
}

// Options 解析配置
type Options struct {
	// NestingLimit 数组/对象最大嵌套深度；<= 0 时使用 DefaultNestingLimit
	NestingLimit int
	// Dialect 语法方言；零值等同 Lenient
	Dialect Dialect
}

func (o Options) normalize() Options {
	if o.NestingLimit <= 0 {
		o.NestingLimit = DefaultNestingLimit
	}
	if o.Dialect == 0 {
		o.Dialect = Lenient
	}
	return o
}
