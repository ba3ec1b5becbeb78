package profile

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/uniyakcom/embjson/json"
)

// DefaultHeadroom 推荐容量在实测值之上预留的百分比
const DefaultHeadroom = 25

// Advised 推荐配置
type Advised struct {
	Profile       *Profile // 已填入推荐容量的 Profile 副本
	MeasuredSlots int      // 样本实际使用的槽位
	MeasuredBytes int      // 样本实际使用的字符串字节（复制模式）
}

// Footprint 固定 Arena 的内存占用（槽位 + 字符串字节）；可增长 Arena 返回 0
func (a *Advised) Footprint() uint64 {
	if !a.Profile.Fixed() {
		return 0
	}
	return uint64(a.Profile.Slots*json.SlotSize + a.Profile.Bytes)
}

// String 人类可读摘要
func (a *Advised) String() string {
	p := a.Profile
	if !p.Fixed() {
		return fmt.Sprintf("%s: dynamic arena (sample used %d slots, %s strings)",
			p.Name, a.MeasuredSlots, humanize.Bytes(uint64(a.MeasuredBytes)))
	}
	return fmt.Sprintf("%s: NewArena(%d, %d) ≈ %s (sample used %d slots, %s strings)",
		p.Name, p.Slots, p.Bytes, humanize.Bytes(a.Footprint()),
		a.MeasuredSlots, humanize.Bytes(uint64(a.MeasuredBytes)))
}

// Advisor 推荐引擎
type Advisor struct {
	Headroom int // 预留百分比；< 0 视为 0
}

// NewAdvisor 创建推荐引擎（默认预留 DefaultHeadroom%）
func NewAdvisor() *Advisor {
	return &Advisor{Headroom: DefaultHeadroom}
}

// Advise 根据 Profile 与样本文档推荐 Arena 容量
//
// sample 为空时只返回 Profile 副本。固定 Arena 的 Profile 容量
// 会被替换为"实测值 + 预留"；就地解析不占用字符串字节，Bytes 推荐为 0。
func (a *Advisor) Advise(p *Profile, sample []byte) (*Advised, error) {
	if p == nil {
		p = Lenient()
	}
	cp := *p
	advised := &Advised{Profile: &cp}
	if len(sample) == 0 {
		return advised, nil
	}

	slots, bytes, err := json.Measure(sample, cp.Options())
	if err != nil {
		return nil, fmt.Errorf("profile: measure sample: %w", err)
	}
	advised.MeasuredSlots = slots
	advised.MeasuredBytes = bytes

	if cp.Fixed() {
		cp.Slots = a.pad(slots)
		if cp.InPlace {
			cp.Bytes = 0
		} else {
			cp.Bytes = a.pad(bytes)
		}
	}
	return advised, nil
}

func (a *Advisor) pad(n int) int {
	h := a.Headroom
	if h < 0 {
		h = 0
	}
	return n + (n*h+99)/100
}
