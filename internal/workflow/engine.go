package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// ErrPipelineNotFound 场景没有对应的 Pipeline
var ErrPipelineNotFound = errors.New("pipeline not found")

// AbortError 必须中止整个流程的节点错误
// 并行节点遇到它时不会按部分成功忽略，而是直接返回
type AbortError struct {
	Node string
	Err  error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

// Abort 将 err 标记为中止流程的错误，err 为 nil 时返回 nil
func Abort(node string, err error) error {
	if err == nil {
		return nil
	}
	return &AbortError{Node: node, Err: err}
}

// IsAbort 判断 err 是否需要中止流程
func IsAbort(err error) bool {
	var ae *AbortError
	return errors.As(err, &ae)
}

// PipelineConfig 单个 Pipeline 的配置
type PipelineConfig struct {
	Description string       `json:"description"`
	TimeoutMs   int          `json:"timeout_ms"`
	Nodes       []NodeConfig `json:"nodes"`
}

// NodeConfig 节点的配置片段
type NodeConfig struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
	Nodes  []NodeConfig           `json:"nodes,omitempty"` // 用于组合节点 (如 parallel)
}

// GlobalConfig 整个配置文件的结构
type GlobalConfig struct {
	Pipelines map[string]PipelineConfig `json:"pipelines"`
}

// NodeFactory 创建 Node 的函数签名
type NodeFactory func(config NodeConfig) (Node, error)

// Registry 节点注册表
type Registry struct {
	factories map[string]NodeFactory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]NodeFactory),
	}
}

// Register 注册一个新的节点类型
func (r *Registry) Register(nodeType string, factory NodeFactory) {
	r.factories[nodeType] = factory
}

// CreateNode 根据配置创建节点实例
func (r *Registry) CreateNode(cfg NodeConfig) (Node, error) {
	// 特殊处理 parallel 节点，因为它属于框架层面的能力
	if cfg.Type == "parallel" {
		var children []Node
		for _, childCfg := range cfg.Nodes {
			childNode, err := r.CreateNode(childCfg)
			if err != nil {
				return nil, err
			}
			children = append(children, childNode)
		}
		return NewParallelNode(cfg.Name, children), nil
	}

	factory, ok := r.factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", cfg.Type)
	}
	return factory(cfg)
}

type pipeline struct {
	nodes   []Node
	timeout time.Duration
}

// Engine 流程引擎
type Engine struct {
	pipelines map[string]pipeline // scene -> nodes
	registry  *Registry
}

// NewEngine 创建引擎并加载配置文件
func NewEngine(configPath string, registry *Registry) (*Engine, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}

	var globalCfg GlobalConfig
	if err := json.Unmarshal(data, &globalCfg); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config: %w", err)
	}

	return NewEngineFromConfig(globalCfg, registry)
}

// NewEngineFromConfig 根据已解析的配置创建引擎
func NewEngineFromConfig(globalCfg GlobalConfig, registry *Registry) (*Engine, error) {
	engine := &Engine{
		pipelines: make(map[string]pipeline),
		registry:  registry,
	}

	for scene, pipeCfg := range globalCfg.Pipelines {
		var nodes []Node
		for _, nodeCfg := range pipeCfg.Nodes {
			node, err := registry.CreateNode(nodeCfg)
			if err != nil {
				return nil, fmt.Errorf("failed to create node '%s' in pipeline '%s': %w", nodeCfg.Name, scene, err)
			}
			nodes = append(nodes, node)
		}
		engine.pipelines[scene] = pipeline{
			nodes:   nodes,
			timeout: time.Duration(pipeCfg.TimeoutMs) * time.Millisecond,
		}
	}

	return engine, nil
}

// Scenes 返回所有已配置的场景
func (e *Engine) Scenes() []string {
	scenes := make([]string, 0, len(e.pipelines))
	for scene := range e.pipelines {
		scenes = append(scenes, scene)
	}
	sort.Strings(scenes)
	return scenes
}

// Run 执行指定场景的推荐流程
func (e *Engine) Run(ctx *Context, scene string) error {
	p, ok := e.pipelines[scene]
	if !ok {
		return fmt.Errorf("%w for scene: %s", ErrPipelineNotFound, scene)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx.Ctx, cancel = context.WithTimeout(ctx.Ctx, p.timeout)
		defer cancel()
	}

	ctx.AddLog(fmt.Sprintf("Starting pipeline execution for scene: %s", scene))

	for _, node := range p.nodes {
		if err := ctx.Ctx.Err(); err != nil {
			ctx.AddLog(fmt.Sprintf("Pipeline aborted before node %s: %v", node.Name(), err))
			return err
		}
		ctx.AddLog(fmt.Sprintf("Executing node: %s (%s)", node.Name(), node.Type()))
		if err := node.Execute(ctx); err != nil {
			ctx.AddLog(fmt.Sprintf("Node execution failed: %v", err))
			return err
		}
	}

	ctx.AddLog("Pipeline execution completed")
	return nil
}
