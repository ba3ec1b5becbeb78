// Package embjson 统一API入口
package embjson

import (
	"github.com/uniyakcom/embjson/json"
	"github.com/uniyakcom/embjson/profile"
)

// Parser 导出 Parser 类型
type Parser = json.Parser

// Node 导出 Node 类型
type Node = json.Node

// Arena 导出 Arena 类型
type Arena = json.Arena

// Options 导出解析配置
type Options = json.Options

// Profile 导出 Profile
type Profile = profile.Profile

// ═══════════════════════════════════════════════════════════════════
// 第零层：New() 零配置入口
// ═══════════════════════════════════════════════════════════════════

// New 零配置创建 Parser（按运行时架构自动选择）
//   - 32 位 / 受限架构: Embedded（固定 Arena）
//   - 其他: Lenient（可增长 Arena）
//
// 用法:
//
//	p := embjson.New()
//	v, err := p.ParseString(`{sensor: 'gps'}`)
func New() *Parser {
	return Option(profile.AutoDetect())
}

// ═══════════════════════════════════════════════════════════════════
// 第一层：ForXxx() 三大核心（推荐使用）
// ═══════════════════════════════════════════════════════════════════

// ForEmbedded 创建固定容量 Arena 的 Parser
// 用途: 传感器上报、MCU 配置、串口协议帧
// 特点: 64 槽位 + 512 字节字符串，解析期间零分配，嵌套深度 10
func ForEmbedded() *Parser {
	return Option(profile.Embedded())
}

// ForLenient 创建宽松方言 Parser（可增长 Arena）
// 用途: 手写配置、非标准 JSON
func ForLenient() *Parser {
	return Option(profile.Lenient())
}

// ForStrict 创建 RFC 8259 严格 Parser（可增长 Arena）
// 用途: 网关校验、数据交换
func ForStrict() *Parser {
	return Option(profile.Strict())
}

// ═══════════════════════════════════════════════════════════════════
// 第二层：Scenario() 字符串配置
// ═══════════════════════════════════════════════════════════════════

// Scenario 预设场景快速创建
// name: "embedded", "lenient", "strict"
func Scenario(name string) *Parser {
	return Option(profile.Preset(name))
}

// ═══════════════════════════════════════════════════════════════════
// 第三层：Option() 完全控制
// ═══════════════════════════════════════════════════════════════════

// Option 按 Profile 创建 Parser（完全控制）
func Option(p *Profile) *Parser {
	if p == nil {
		p = profile.Lenient()
	}
	return profile.New(p)
}

// Fit 按样本文档推荐容量后创建 Parser
//
// 固定 Arena 的 Profile 容量被替换为"样本实测值 + 25% 预留"。
func Fit(p *Profile, sample []byte) (*Parser, error) {
	advised, err := profile.NewAdvisor().Advise(p, sample)
	if err != nil {
		return nil, err
	}
	return profile.Build(advised), nil
}

// ═══════════════════════════════════════════════════════════════════
// 包级便捷 API（池化 Parser，并发安全）
// ═══════════════════════════════════════════════════════════════════

// Valid 报告 data 是否为合法 JSON（宽松方言）
func Valid(data []byte) bool {
	return ValidWith(data, Options{})
}

// ValidWith 按指定 Options 校验
func ValidWith(data []byte, opts Options) bool {
	_, _, err := json.Measure(data, opts)
	return err == nil
}

// Parse 解析 data 并转换为 Go 原生值（不引用 Arena）
//
// 用法:
//
//	v, err := embjson.Parse([]byte(`{a: [1, 2.5]}`))
//	// map[string]any{"a": []any{int64(1), 2.5}}
func Parse(data []byte) (any, error) {
	p := json.AcquireParser()
	defer json.ReleaseParser(p)
	n, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	return n.Interface(), nil
}

// Unmarshal 将 JSON 反序列化到 v（宽松方言）
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Compact 重新序列化为紧凑 JSON，追加到 dst
func Compact(dst, data []byte) ([]byte, error) {
	p := json.AcquireParser()
	defer json.ReleaseParser(p)
	n, err := p.Parse(data)
	if err != nil {
		return dst, err
	}
	return json.AppendNode(dst, n), nil
}
