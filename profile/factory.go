package profile

import "github.com/uniyakcom/embjson/json"

// Build 根据推荐配置构建 Parser
func Build(advised *Advised) *json.Parser {
	return New(advised.Profile)
}

// New 根据 Profile 构建 Parser（nil 使用 Lenient）
func New(p *Profile) *json.Parser {
	if p == nil {
		p = Lenient()
	}
	var a *json.Arena
	if p.Fixed() {
		a = json.NewArena(p.Slots, p.Bytes)
	} else {
		a = json.NewDynamicArena()
	}
	return json.NewParser(a, p.Options())
}

// Parse 按 Profile 的模式解析 data
//
// InPlace 时 data 被改写，返回的字符串引用 data；否则 data 保持不变。
func Parse(parser *json.Parser, p *Profile, data []byte) (json.Node, error) {
	if p != nil && p.InPlace {
		return parser.ParseInPlace(data)
	}
	return parser.Parse(data)
}
