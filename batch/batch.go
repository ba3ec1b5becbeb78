// Package batch 提供基于 goroutine 池的并发批量解析
//
// 每个文档在独立的 Parser（独立 Arena）上解析，Parser 来自池并在
// Result.Release 时归还，因此同一批次的 Node 彼此独立、互不失效。
//
// 用法:
//
//	b, _ := batch.New(batch.Config{Workers: 4, Profile: profile.Embedded()})
//	defer b.Close()
//	results, err := b.ParseAll(ctx, docs)
//	for _, r := range results {
//	    if r.Err == nil {
//	        fmt.Println(r.Root.GetString("sensor"))
//	    }
//	    r.Release()
//	}
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/uniyakcom/embjson/internal/support/counter"
	"github.com/uniyakcom/embjson/json"
	"github.com/uniyakcom/embjson/profile"
)

// ErrClosed 在已关闭的 Batch 上调用 ParseAll
var ErrClosed = errors.New("batch: closed")

// ErrWorkerPanic 解析任务发生 panic（已被恢复）
var ErrWorkerPanic = errors.New("batch: worker panic")

// Config 批量解析配置
type Config struct {
	// Workers 并发 worker 数；<= 0 时使用 Profile.Workers，仍 <= 0 则为 GOMAXPROCS
	Workers int
	// Profile 每个 Parser 的配置；nil 使用 profile.Lenient()
	Profile *profile.Profile
	// Logger 自定义日志。为 nil 时使用 slog.Default()。
	Logger *slog.Logger
}

// Stats 累计统计
type Stats struct {
	Parsed int64 // 成功解析的文档数
	Failed int64 // 解析失败的文档数
	Panics int64 // 恢复的 worker panic 数
}

// Result 单个文档的解析结果
//
// Root 在 Release 之前有效。Profile.InPlace 为 true 时 Root 中的字符串
// 引用输入文档，输入在 Release 之前不可修改。
type Result struct {
	Index int       // 文档在输入中的下标
	Root  json.Node // 根节点（Err != nil 时无效）
	Err   error
	Slots int // 使用的槽位数
	Bytes int // 使用的字符串字节数

	parser *json.Parser
	owner  *Batch
}

// Release 归还 Parser（之后 Root 失效）；可重复调用
func (r *Result) Release() {
	if r == nil || r.parser == nil {
		return
	}
	r.owner.putParser(r.parser)
	r.parser = nil
	r.Root = json.Node{}
}

// Batch 并发批量解析器（并发安全）
type Batch struct {
	pool    *ants.Pool
	profile *profile.Profile
	logger  *slog.Logger
	parsers sync.Pool

	parsed *counter.Counter
	failed *counter.Counter
	panics *counter.Counter
	closed atomic.Bool
}

// New 创建批量解析器
func New(cfg Config) (*Batch, error) {
	p := cfg.Profile
	if p == nil {
		p = profile.Lenient()
	} else {
		cp := *p
		p = &cp
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = p.Workers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Batch{
		profile: p,
		logger:  logger,
		parsed:  counter.New(),
		failed:  counter.New(),
		panics:  counter.New(),
	}
	b.parsers.New = func() any { return profile.New(b.profile) }

	pool, err := ants.NewPool(workers,
		ants.WithPanicHandler(func(r any) {
			b.panics.Add(1)
			b.logger.Error("batch worker panic", "panic", r)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("batch: create pool: %w", err)
	}
	b.pool = pool
	return b, nil
}

func (b *Batch) getParser() *json.Parser { return b.parsers.Get().(*json.Parser) }

func (b *Batch) putParser(p *json.Parser) {
	p.Reset()
	b.parsers.Put(p)
}

// ParseAll 并发解析 docs，结果与输入一一对应
//
// ctx 取消后停止提交，未解析的文档 Err 为 ctx.Err()，
// 此时返回值 error 包装 ctx.Err()。返回的每个 Result 都需要 Release。
func (b *Batch) ParseAll(ctx context.Context, docs [][]byte) ([]*Result, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	results := make([]*Result, len(docs))
	var wg sync.WaitGroup

	for i := range docs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(docs); j++ {
				results[j] = &Result{Index: j, Err: err}
			}
			break
		}
		r := &Result{Index: i, Err: ErrWorkerPanic, owner: b}
		results[i] = r
		doc := docs[i]

		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			b.parseOne(ctx, r, doc)
		})
		if err != nil {
			wg.Done()
			r.Err = fmt.Errorf("batch: submit: %w", err)
		}
	}
	wg.Wait()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	b.logger.Info("batch parsed",
		"docs", len(docs),
		"failed", failed,
		"workers", b.pool.Cap(),
		"duration", time.Since(start),
	)
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch: %w", err)
	}
	return results, nil
}

func (b *Batch) parseOne(ctx context.Context, r *Result, doc []byte) {
	if err := ctx.Err(); err != nil {
		r.Err = err
		return
	}
	p := b.getParser()
	root, err := profile.Parse(p, b.profile, doc)
	if err != nil {
		b.putParser(p)
		b.failed.Add(1)
		b.logger.Debug("document rejected", "index", r.Index, "error", err)
		r.Err = err
		return
	}
	b.parsed.Add(1)
	r.Root = root
	r.Slots = p.Arena().Len()
	r.Bytes = p.Arena().BytesLen()
	r.parser = p
	r.Err = nil
}

// Stats 返回累计统计
func (b *Batch) Stats() Stats {
	return Stats{
		Parsed: b.parsed.Load(),
		Failed: b.failed.Load(),
		Panics: b.panics.Load(),
	}
}

// Profile 返回生效的 Profile 副本
func (b *Batch) Profile() *profile.Profile {
	cp := *b.profile
	return &cp
}

// Close 释放 worker；之后 ParseAll 返回 ErrClosed
//
// 已返回的 Result 仍然有效，直到各自 Release。
func (b *Batch) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	b.pool.Release()
}

// ReleaseAll 释放一组结果
func ReleaseAll(results []*Result) {
	for _, r := range results {
		r.Release()
	}
}
