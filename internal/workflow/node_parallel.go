package workflow

import (
	"fmt"
	"strings"
	"sync"
)

// ParallelNode 是一个组合节点，用于并发执行多个子节点
type ParallelNode struct {
	nodeName string
	children []Node
}

// NewParallelNode 创建一个新的并行节点
func NewParallelNode(name string, children []Node) *ParallelNode {
	return &ParallelNode{
		nodeName: name,
		children: children,
	}
}

func (n *ParallelNode) Name() string {
	return n.nodeName
}

func (n *ParallelNode) Type() string {
	return "parallel"
}

// Execute 并发执行所有子节点
// 采用 "Best Effort" 策略：只要有一个子节点成功，就不视为整个节点失败。
// 例外是 AbortError：任一子节点返回它时，整个节点失败并原样返回该错误。
// 只有当所有子节点都失败时，才返回聚合错误。
// 子节点写入候选集的顺序不确定，后续需要 rank 节点统一排序。
func (n *ParallelNode) Execute(ctx *Context) error {
	ctx.AddLog(fmt.Sprintf("Start ParallelNode: %s", n.nodeName))

	// 按子节点下标记录错误，保证返回哪个错误与调度顺序无关
	results := make([]error, len(n.children))
	var wg sync.WaitGroup

	for i, child := range n.children {
		wg.Add(1)
		go func(i int, node Node) {
			defer wg.Done()

			defer func() {
				if r := recover(); r != nil {
					results[i] = fmt.Errorf("node %s panic: %v", node.Name(), r)
				}
			}()

			ctx.AddLog(fmt.Sprintf("  -> Start child node: %s", node.Name()))
			if err := node.Execute(ctx); err != nil {
				ctx.AddLog(fmt.Sprintf("  -> Node %s failed: %v", node.Name(), err))
				results[i] = err
				return
			}
			ctx.AddLog(fmt.Sprintf("  -> Node %s completed", node.Name()))
		}(i, child)
	}

	wg.Wait()

	var errs []string
	var firstErr error
	for i, err := range results {
		if err == nil {
			continue
		}
		if IsAbort(err) {
			ctx.AddLog(fmt.Sprintf("ParallelNode %s aborted by %s", n.nodeName, n.children[i].Name()))
			return err
		}
		errs = append(errs, fmt.Sprintf("node %s: %v", n.children[i].Name(), err))
		if firstErr == nil {
			firstErr = err
		}
	}

	// 所有子节点都失败时返回聚合错误，保留第一个错误用于 errors.Is 判断
	if len(errs) > 0 && len(errs) == len(n.children) {
		return fmt.Errorf("all parallel nodes failed: %s: %w", strings.Join(errs, "; "), firstErr)
	}

	if len(errs) > 0 {
		ctx.AddLog(fmt.Sprintf("ParallelNode completed with %d errors (ignored due to partial success): %v", len(errs), errs))
	} else {
		ctx.AddLog(fmt.Sprintf("End ParallelNode: %s (All success)", n.nodeName))
	}

	return nil
}
