package workflow

import (
	"context"
	"sync"

	"kdrama_recommend/internal/model"
)

// Query 一次推荐请求的参数
type Query struct {
	Seed  string `json:"seed"`  // 用户喜欢的剧集名称
	Genre string `json:"genre"` // 类型过滤，空或 "All" 表示不过滤
	Limit int    `json:"limit"`
}

// Context 承载推荐流程的所有状态信息
// 它是并发安全的，支持多路召回并行写入
type Context struct {
	Ctx    context.Context
	UserID string
	User   *model.User
	Query  Query
	Config map[string]interface{}

	// 数据流转区 (需要锁保护)
	mu            sync.RWMutex
	Candidates    []*model.Recommendation            // 当前的主候选集
	RecallResults map[string][]*model.Recommendation // 各路召回的原始结果 key: source_name
	TraceLog      []string                           // 执行日志
}

// NewContext 创建一个新的工作流上下文
func NewContext(ctx context.Context, user *model.User, query Query) *Context {
	c := &Context{
		Ctx:           ctx,
		User:          user,
		Query:         query,
		Config:        make(map[string]interface{}),
		RecallResults: make(map[string][]*model.Recommendation),
		Candidates:    make([]*model.Recommendation, 0),
		TraceLog:      make([]string, 0),
	}
	if user != nil {
		c.UserID = user.ID
	}
	return c
}

// AddCandidates 向候选集中添加项目 (线程安全)
func (c *Context) AddCandidates(items []*model.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Candidates = append(c.Candidates, items...)
}

// SetRecallResult 记录特定召回源的结果，并合并到候选集 (线程安全)
func (c *Context) SetRecallResult(source string, items []*model.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RecallResults[source] = items
	c.Candidates = append(c.Candidates, items...)
}

// RecallResult 获取指定召回源的原始结果副本，保持召回时的顺序 (线程安全)
func (c *Context) RecallResult(source string) []*model.Recommendation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := c.RecallResults[source]
	result := make([]*model.Recommendation, len(items))
	copy(result, items)
	return result
}

// GetCandidates 获取当前候选集的副本 (线程安全)
func (c *Context) GetCandidates() []*model.Recommendation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*model.Recommendation, len(c.Candidates))
	copy(result, c.Candidates)
	return result
}

// UpdateCandidates 更新整个候选集 (线程安全)
// 通常用于过滤或排序阶段
func (c *Context) UpdateCandidates(items []*model.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Candidates = items
}

// AddLog 添加追踪日志
func (c *Context) AddLog(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TraceLog = append(c.TraceLog, msg)
}

// Logs 返回追踪日志的副本
func (c *Context) Logs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]string, len(c.TraceLog))
	copy(result, c.TraceLog)
	return result
}

// Node 定义工作流中的执行节点
type Node interface {
	Name() string
	Type() string // e.g., "recall", "filter", "rank", "parallel"
	Execute(ctx *Context) error
}
