package layout

import "log/slog"

// 文档大纲：渲染过程中按出现顺序记录标题锚点，
// 收尾时折叠成树再逐个挂接到画布书签。

// OutlineHeading 是渲染时记录的标题锚点。Page/Y 指向标题首行
// 顶部（分页判定之后记录，保证落在标题实际所在页）。
type OutlineHeading struct {
	ID    int
	Text  string
	Level int
	Page  int
	Y     float64
}

// OutlineNode 是大纲树节点。
type OutlineNode struct {
	Heading  OutlineHeading
	Children []*OutlineNode
}

// buildOutline 用栈把线性标题序列折叠成森林：
// 遇到 level 更深的标题挂到栈顶之下，否则弹栈到首个更浅的祖先。
// 比首个标题更浅的层级直接成为新的根。
func buildOutline(headings []OutlineHeading) []*OutlineNode {
	var roots []*OutlineNode
	var stack []*OutlineNode
	for _, h := range headings {
		node := &OutlineNode{Heading: h}
		for len(stack) > 0 && stack[len(stack)-1].Heading.Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

// attachOutline 深度优先把大纲森林写入画布书签。
// 单个节点挂接失败只告警跳过，其子节点提升到失败节点的深度，
// 保证其余大纲不受影响。
func attachOutline(c Canvas, roots []*OutlineNode, log *slog.Logger) {
	var walk func(nodes []*OutlineNode, depth int)
	walk = func(nodes []*OutlineNode, depth int) {
		for _, n := range nodes {
			dest := Destination{Page: n.Heading.Page, Y: n.Heading.Y}
			if err := c.AddOutlineNode(n.Heading.Text, depth, dest); err != nil {
				log.Warn("书签挂接失败，跳过该节点",
					"title", n.Heading.Text,
					"page", n.Heading.Page,
					"error", err)
				walk(n.Children, depth)
				continue
			}
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
}
