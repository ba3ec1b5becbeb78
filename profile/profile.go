// Package profile 提供解析场景预设与 Arena 容量推荐
package profile

import (
	"runtime"

	"github.com/uniyakcom/embjson/json"
)

// Profile 解析场景 Profile
type Profile struct {
	Name         string       // 场景名称
	NestingLimit int          // 最大嵌套深度
	Dialect      json.Dialect // 语法方言
	Slots        int          // 固定 Arena 槽位数（0=可增长 Arena）
	Bytes        int          // 固定 Arena 字符串字节数
	InPlace      bool         // 就地解析（改写输入缓冲区，字符串零拷贝）
	Workers      int          // batch 并发解析的 worker 数
	Arch         string       // "amd64"/"arm"/...
}

// Options 转换为解析器配置
func (p *Profile) Options() json.Options {
	return json.Options{NestingLimit: p.NestingLimit, Dialect: p.Dialect}
}

// Fixed 是否使用固定容量 Arena
func (p *Profile) Fixed() bool { return p.Slots > 0 }

// ═══════════════════════════════════════════════════════════════════
// 三大核心 Profile
// ═══════════════════════════════════════════════════════════════════

// Embedded 嵌入式目标
// 用途: 传感器上报、MCU 配置文件、串口协议帧
// 特点: 固定容量 Arena，解析期间零分配，就地解转义，嵌套深度 10
func Embedded() *Profile {
	return &Profile{
		Name:         "embedded",
		NestingLimit: json.DefaultNestingLimit,
		Dialect:      json.Lenient,
		Slots:        64,
		Bytes:        512,
		InPlace:      true,
		Workers:      1,
		Arch:         runtime.GOARCH,
	}
}

// Lenient 宽松方言 + 可增长 Arena
// 用途: 手写配置、设备日志、非标准 JSON 输入
func Lenient() *Profile {
	return &Profile{
		Name:         "lenient",
		NestingLimit: json.DefaultNestingLimit,
		Dialect:      json.Lenient,
		Workers:      runtime.NumCPU(),
		Arch:         runtime.GOARCH,
	}
}

// Strict RFC 8259 严格模式 + 可增长 Arena
// 用途: 网关校验、与其他系统交换数据
func Strict() *Profile {
	return &Profile{
		Name:         "strict",
		NestingLimit: json.MaxDepth,
		Dialect:      json.Strict,
		Workers:      runtime.NumCPU(),
		Arch:         runtime.GOARCH,
	}
}

// ═══════════════════════════════════════════════════════════════════
// Presets
// ═══════════════════════════════════════════════════════════════════

// Presets 所有预设场景
var Presets = map[string]*Profile{
	"embedded": Embedded(),
	"lenient":  Lenient(),
	"strict":   Strict(),
}

// Names 预设名称（固定顺序，供 CLI 使用）
func Names() []string { return []string{"embedded", "lenient", "strict"} }

// Preset 获取预设 Profile（未知名称返回 Lenient）
func Preset(name string) *Profile {
	if p, ok := Presets[name]; ok {
		// 返回副本，避免共享状态
		cp := *p
		return &cp
	}
	return Lenient()
}

// Lookup 获取预设 Profile，未知名称返回 false
func Lookup(name string) (*Profile, bool) {
	p, ok := Presets[name]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// ═════════════════════════════════════════════════════════════════
// 自动检测
// ═════════════════════════════════════════════════════════════════

// smallArch 32 位及内存受限的目标架构
var smallArch = map[string]bool{
	"arm":    true,
	"mips":   true,
	"mipsle": true,
	"386":    true,
	"wasm":   true,
}

// AutoDetect 根据运行时架构选择预设
//   - 32 位 / 受限架构 → Embedded（固定 Arena）
//   - 其他              → Lenient（可增长 Arena）
func AutoDetect() *Profile {
	return detect(runtime.GOARCH)
}

func detect(arch string) *Profile {
	var p *Profile
	if smallArch[arch] {
		p = Embedded()
	} else {
		p = Lenient()
	}
	p.Name = "auto"
	p.Arch = arch
	return p
}
