package layout

import (
	"log/slog"
	"testing"
)

func h(id int, text string, level, page int) OutlineHeading {
	return OutlineHeading{ID: id, Text: text, Level: level, Page: page, Y: 100}
}

func TestBuildOutlineNesting(t *testing.T) {
	roots := buildOutline([]OutlineHeading{
		h(1, "Intro", 2, 1),
		h(2, "Detail A", 3, 1),
		h(3, "Detail B", 3, 2),
		h(4, "Wrap-up", 2, 3),
	})
	if len(roots) != 2 {
		t.Fatalf("期望 2 个根节点，got %d", len(roots))
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("Intro 应有 2 个子节点，got %d", len(roots[0].Children))
	}
	if roots[0].Children[1].Heading.Text != "Detail B" {
		t.Fatalf("子节点顺序错误：%q", roots[0].Children[1].Heading.Text)
	}
	if len(roots[1].Children) != 0 {
		t.Fatalf("Wrap-up 不应有子节点")
	}
}

func TestBuildOutlineDeepHeadingFirst(t *testing.T) {
	// 首个标题比后续更深：各自成根，浅标题不挂到深标题下。
	roots := buildOutline([]OutlineHeading{
		h(1, "Deep", 3, 1),
		h(2, "Shallow", 2, 1),
	})
	if len(roots) != 2 {
		t.Fatalf("期望 2 个根节点，got %d", len(roots))
	}
	if roots[0].Heading.Text != "Deep" || roots[1].Heading.Text != "Shallow" {
		t.Fatalf("根节点顺序错误：%v %v", roots[0].Heading.Text, roots[1].Heading.Text)
	}
}

func TestBuildOutlineSkipsLevels(t *testing.T) {
	// H2 后直接 H4：H4 仍挂在 H2 下。
	roots := buildOutline([]OutlineHeading{
		h(1, "Top", 2, 1),
		h(2, "Sub-sub", 4, 1),
		h(3, "Sub", 3, 2),
	})
	if len(roots) != 1 {
		t.Fatalf("期望单根，got %d", len(roots))
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("Top 应有 2 个子节点，got %d", len(roots[0].Children))
	}
}

func TestAttachOutlineDepths(t *testing.T) {
	c := newFakeCanvas()
	c.AddPage()
	roots := buildOutline([]OutlineHeading{
		h(1, "A", 2, 1),
		h(2, "A.1", 3, 1),
		h(3, "A.1.a", 4, 1),
		h(4, "B", 2, 1),
	})
	attachOutline(c, roots, slog.New(slog.DiscardHandler))

	if len(c.outline) != 4 {
		t.Fatalf("期望挂接 4 个节点，got %d", len(c.outline))
	}
	wantDepth := map[string]int{"A": 0, "A.1": 1, "A.1.a": 2, "B": 0}
	for _, o := range c.outline {
		if o.depth != wantDepth[o.title] {
			t.Fatalf("节点 %q 深度 %d，期望 %d", o.title, o.depth, wantDepth[o.title])
		}
	}
}

func TestAttachOutlineFailurePromotesChildren(t *testing.T) {
	c := newFakeCanvas()
	c.AddPage()
	c.AddPage()
	c.failPage = 2

	roots := buildOutline([]OutlineHeading{
		h(1, "Good", 2, 1),
		h(2, "Bad", 2, 2),
		h(3, "Child of bad", 3, 1),
	})
	attachOutline(c, roots, slog.New(slog.DiscardHandler))

	if len(c.outline) != 2 {
		t.Fatalf("失败节点应被跳过：got %d 个节点", len(c.outline))
	}
	for _, o := range c.outline {
		if o.title == "Bad" {
			t.Fatal("失败节点不应出现在书签中")
		}
		if o.title == "Child of bad" && o.depth != 0 {
			t.Fatalf("失败节点的子节点应提升到其深度：depth=%d", o.depth)
		}
	}
}

func TestDestinationDestY(t *testing.T) {
	d := Destination{Page: 1, Y: 100}
	if got := d.DestY(842); got != 742 {
		t.Fatalf("DestY = %.2f，期望 742", got)
	}
}
