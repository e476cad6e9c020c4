package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// div 创建带 class 的元素并挂到 parent 下。
func div(t *testing.T, tree *dom.Tree, parent dom.NodeID, class string) dom.NodeID {
	t.Helper()
	id := tree.CreateElement("div")
	if class != "" {
		require.NoError(t, tree.SetAttribute(id, "class", class))
	}
	require.NoError(t, tree.AppendChild(parent, id))
	return id
}

func text(t *testing.T, tree *dom.Tree, parent dom.NodeID, s string) dom.NodeID {
	t.Helper()
	id := tree.CreateText(s)
	require.NoError(t, tree.AppendChild(parent, id))
	return id
}

func layoutWith(t *testing.T, tree *dom.Tree, css string) *Context {
	t.Helper()
	logger := zaptest.NewLogger(t)
	sheet, err := style.ParseSheet("test.css", css, logger)
	require.NoError(t, err)
	ctx := NewContext(tree, style.NewResolver(tree, sheet, logger), Options{Logger: logger})
	ctx.Layout()
	return ctx
}

func assertBounds(t *testing.T, ctx *Context, id dom.NodeID, want Rect) {
	t.Helper()
	if diff := cmp.Diff(want, ctx.Bounds(id), approx); diff != "" {
		t.Fatalf("节点 %d 的位置不符 (-want +got):\n%s", id, diff)
	}
}

const rowContainerCSS = `
.container { display: flex; flex-direction: row; width: 400px; height: 200px; }
.fixed { width: 60px; height: 40px; }
.grow { flex-grow: 1; }
`

func TestNestedFlexLayout(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "flex_container")
	child1 := div(t, tree, container, "child1")
	nested1 := div(t, tree, child1, "nested_child")
	nested2 := div(t, tree, child1, "nested_child grow")
	nested3 := div(t, tree, child1, "nested_child")
	nested4 := div(t, tree, child1, "nested_child")
	child2 := div(t, tree, container, "child2")

	ctx := layoutWith(t, tree, `
		.flex_container { display: flex; flex-direction: row; width: 400px; height: 200px; }
		.child1 { display: flex; flex-direction: column; flex-wrap: wrap; }
		.grow { flex: 1; }
		.child2 { flex: 1; background-color: red; }
		.nested_child { height: 40px; width: 60px; background: green; }
	`)

	assertBounds(t, ctx, container, Rect{0, 0, 400, 200})
	assertBounds(t, ctx, child1, Rect{0, 0, 60, 200})
	assertBounds(t, ctx, nested1, Rect{0, 0, 60, 40})
	assertBounds(t, ctx, nested2, Rect{0, 40, 60, 80})
	assertBounds(t, ctx, nested3, Rect{0, 120, 60, 40})
	assertBounds(t, ctx, nested4, Rect{0, 160, 60, 40})
	assertBounds(t, ctx, child2, Rect{60, 0, 340, 200})

	heights := 0.0
	for _, id := range []dom.NodeID{nested1, nested2, nested3, nested4} {
		heights += ctx.Bounds(id).Height
	}
	assert.InDelta(t, 200, heights, 1e-9)
}

func TestFixedItemsPackAtStart(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	a := div(t, tree, container, "fixed")
	b := div(t, tree, container, "fixed")
	c := div(t, tree, container, "fixed")

	ctx := layoutWith(t, tree, rowContainerCSS)
	assertBounds(t, ctx, a, Rect{0, 0, 60, 40})
	assertBounds(t, ctx, b, Rect{60, 0, 60, 40})
	assertBounds(t, ctx, c, Rect{120, 0, 60, 40})
}

func TestGrowItemTakesFreeSpace(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	a := div(t, tree, container, "fixed grow")
	b := div(t, tree, container, "fixed")
	c := div(t, tree, container, "fixed")

	ctx := layoutWith(t, tree, rowContainerCSS)
	assertBounds(t, ctx, a, Rect{0, 0, 280, 40})
	assertBounds(t, ctx, b, Rect{280, 0, 60, 40})
	assertBounds(t, ctx, c, Rect{340, 0, 60, 40})
}

func TestSingleLineStretchUsesContainerCross(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	auto := div(t, tree, container, "auto")
	fixed := div(t, tree, container, "fixed")

	ctx := layoutWith(t, tree, rowContainerCSS+`.auto { width: 60px; }`)
	assertBounds(t, ctx, auto, Rect{0, 0, 60, 200})
	assertBounds(t, ctx, fixed, Rect{60, 0, 60, 40})
}

func TestMultiLineStretchUsesLineCross(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "wrap")
	a := div(t, tree, container, "item tall")
	b := div(t, tree, container, "item")
	c := div(t, tree, container, "item")

	ctx := layoutWith(t, tree, `
		.wrap { display: flex; flex-wrap: wrap; width: 200px; height: 300px; column-gap: 10px; row-gap: 5px; }
		.item { width: 80px; }
		.tall { height: 50px; }
	`)
	// 第一行 80+10+80=170，第三项放不下，换到第二行。
	assertBounds(t, ctx, a, Rect{0, 0, 80, 50})
	assertBounds(t, ctx, b, Rect{90, 0, 80, 50})
	assertBounds(t, ctx, c, Rect{0, 55, 80, 30})
}

func TestNowrapNeverBreaks(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "row")
	var ids []dom.NodeID
	for i := 0; i < 5; i++ {
		ids = append(ids, div(t, tree, container, "item"))
	}
	ctx := layoutWith(t, tree, `
		.row { display: flex; width: 200px; height: 100px; }
		.item { width: 80px; height: 20px; }
	`)
	for i, id := range ids {
		assertBounds(t, ctx, id, Rect{float64(i) * 80, 0, 80, 20})
	}
}

func TestGrowConservesAvailableSpace(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "row")
	ids := []dom.NodeID{
		div(t, tree, container, "g1"),
		div(t, tree, container, "g2"),
		div(t, tree, container, "g3"),
		div(t, tree, container, "fixed"),
	}
	ctx := layoutWith(t, tree, `
		.row { display: flex; width: 513px; height: 50px; gap: 7px; }
		.g1 { width: 33px; flex-grow: 1; }
		.g2 { width: 12.5px; flex-grow: 2.5; }
		.g3 { flex-grow: 0.3; }
		.fixed { width: 40px; }
	`)

	total := 3 * 7.0
	for _, id := range ids {
		total += ctx.Bounds(id).Width
	}
	assert.InDelta(t, 513, total, 1e-9)
	last := ctx.Bounds(ids[3])
	assert.InDelta(t, 513, last.Right(), 1e-9)
	assert.InDelta(t, 40, last.Width, 1e-9)
}

func TestNoShrinkByDefault(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "row")
	a := div(t, tree, container, "item")
	b := div(t, tree, container, "item")
	ctx := layoutWith(t, tree, `
		.row { display: flex; width: 100px; height: 50px; }
		.item { width: 80px; height: 10px; }
	`)
	assertBounds(t, ctx, a, Rect{0, 0, 80, 10})
	assertBounds(t, ctx, b, Rect{80, 0, 80, 10})
}

func TestShrinkWeightedByBaseSize(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "row")
	small := div(t, tree, container, "small shrink")
	large := div(t, tree, container, "large shrink")
	rigid := div(t, tree, container, "small")
	ctx := layoutWith(t, tree, `
		.row { display: flex; width: 300px; height: 50px; }
		.small { width: 100px; height: 10px; }
		.large { width: 300px; height: 10px; }
		.shrink { flex-shrink: 1; }
	`)
	// 溢出 200，权重 100:300。
	assertBounds(t, ctx, small, Rect{0, 0, 50, 10})
	assertBounds(t, ctx, large, Rect{50, 0, 150, 10})
	assertBounds(t, ctx, rigid, Rect{200, 0, 100, 10})
}

func TestShrinkNeverNegative(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "row")
	a := div(t, tree, container, "item")
	b := div(t, tree, container, "item")
	ctx := layoutWith(t, tree, `
		.row { display: flex; width: 10px; height: 50px; column-gap: 100px; }
		.item { width: 20px; height: 10px; flex-shrink: 1; }
	`)
	assert.Zero(t, ctx.Bounds(a).Width)
	assert.Zero(t, ctx.Bounds(b).Width)
	assert.InDelta(t, 100, ctx.Bounds(b).X, 1e-9)
}

func TestOrderChangesPositionNotIdentity(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	a := div(t, tree, container, "fixed late")
	b := div(t, tree, container, "fixed")
	c := div(t, tree, container, "fixed early")
	d := div(t, tree, container, "fixed")

	ctx := layoutWith(t, tree, rowContainerCSS+`.late { order: 2; } .early { order: -1; }`)
	assert.Equal(t, []dom.NodeID{a, b, c, d}, tree.Children(container))
	assert.InDelta(t, 0, ctx.Bounds(c).X, 1e-9)
	assert.InDelta(t, 60, ctx.Bounds(b).X, 1e-9, "相同 order 保持原顺序")
	assert.InDelta(t, 120, ctx.Bounds(d).X, 1e-9)
	assert.InDelta(t, 180, ctx.Bounds(a).X, 1e-9)
}

func TestWhitespaceTextIsIgnored(t *testing.T) {
	build := func(withBlank bool) (*Context, []dom.NodeID, dom.NodeID) {
		tree := dom.NewTree()
		container := div(t, tree, dom.RootID, "container")
		var blank dom.NodeID = dom.NoParent
		if withBlank {
			blank = text(t, tree, container, "\n   \t")
		}
		a := div(t, tree, container, "fixed")
		if withBlank {
			text(t, tree, container, "  ")
		}
		b := div(t, tree, container, "fixed")
		return layoutWith(t, tree, rowContainerCSS+`.container { justify-content: space-between; }`), []dom.NodeID{a, b}, blank
	}

	plain, plainIDs, _ := build(false)
	spaced, spacedIDs, blank := build(true)
	for i := range plainIDs {
		if diff := cmp.Diff(plain.Bounds(plainIDs[i]), spaced.Bounds(spacedIDs[i]), approx); diff != "" {
			t.Fatalf("空白文本影响了布局 (-plain +spaced):\n%s", diff)
		}
	}
	assert.Equal(t, Rect{}, spaced.Bounds(blank))
	_, found := spaced.Result().Find(blank)
	assert.False(t, found)
}

func TestTextItemsUsePlaceholderSize(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	word := text(t, tree, container, "hello")
	fixed := div(t, tree, container, "fixed")

	ctx := layoutWith(t, tree, rowContainerCSS)
	assertBounds(t, ctx, word, Rect{0, 0, 100, 200})
	assertBounds(t, ctx, fixed, Rect{100, 0, 60, 40})
}

func TestJustifyContentInContainer(t *testing.T) {
	cases := []struct {
		justify string
		want    []float64
	}{
		{"flex-start", []float64{0, 60, 120}},
		{"flex-end", []float64{220, 280, 340}},
		{"center", []float64{110, 170, 230}},
		{"space-between", []float64{0, 170, 340}},
		{"space-around", []float64{220.0 / 6, 60 + 220.0/6 + 220.0/3, 120 + 220.0/6 + 2*220.0/3}},
		{"space-evenly", []float64{55, 170, 285}},
	}
	for _, c := range cases {
		t.Run(c.justify, func(t *testing.T) {
			tree := dom.NewTree()
			container := div(t, tree, dom.RootID, "container")
			var ids []dom.NodeID
			for i := 0; i < 3; i++ {
				ids = append(ids, div(t, tree, container, "fixed"))
			}
			ctx := layoutWith(t, tree, rowContainerCSS+`.container { justify-content: `+c.justify+`; }`)
			for i, id := range ids {
				assert.InDelta(t, c.want[i], ctx.Bounds(id).X, 1e-9, "item %d", i)
			}
		})
	}
}

func TestSpaceBetweenSingleItem(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	only := div(t, tree, container, "fixed")
	ctx := layoutWith(t, tree, rowContainerCSS+`.container { justify-content: space-between; }`)
	assertBounds(t, ctx, only, Rect{0, 0, 60, 40})
}

func TestReverseDirectionsFlipJustification(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "col")
	a := div(t, tree, container, "fixed")
	b := div(t, tree, container, "fixed")
	ctx := layoutWith(t, tree, `
		.col { display: flex; flex-direction: column-reverse; width: 100px; height: 200px; }
		.fixed { width: 60px; height: 40px; }
	`)
	// 只交换起止端的含义，项目仍按原顺序排列。
	assertBounds(t, ctx, a, Rect{0, 120, 60, 40})
	assertBounds(t, ctx, b, Rect{0, 160, 60, 40})
}

func TestCrossAlignment(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	centered := div(t, tree, container, "fixed")
	end := div(t, tree, container, "fixed end")
	start := div(t, tree, container, "fixed start")
	stretched := div(t, tree, container, "stretch")

	ctx := layoutWith(t, tree, rowContainerCSS+`
		.container { align-items: center; }
		.end { align-self: flex-end; }
		.start { align-self: baseline; }
		.stretch { width: 10px; align-self: stretch; }
	`)
	assertBounds(t, ctx, centered, Rect{0, 80, 60, 40})
	assertBounds(t, ctx, end, Rect{60, 160, 60, 40})
	assertBounds(t, ctx, start, Rect{120, 0, 60, 40})
	assertBounds(t, ctx, stretched, Rect{180, 0, 10, 200})
}

func TestIndefiniteAxisUsesContentBox(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "box")
	item := div(t, tree, container, "item")
	ctx := layoutWith(t, tree, `
		.box { display: flex; width: auto; height: 100px; padding: 10px; border: 2px solid black; }
		.item { flex-grow: 1; height: 20px; }
	`)
	// 视口宽 800，扣除 2×10 内边距与 2×2 边框。
	assertBounds(t, ctx, container, Rect{0, 0, 800, 100})
	assertBounds(t, ctx, item, Rect{12, 0, 776, 20})
}

func TestPercentLengthsResolveAgainstContainer(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	quarter := div(t, tree, container, "quarter")
	ctx := layoutWith(t, tree, rowContainerCSS+`.quarter { width: 25%; height: 50%; }`)
	assertBounds(t, ctx, quarter, Rect{0, 0, 100, 100})
}

func TestDisplayNoneChildrenAreSkipped(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	hidden := div(t, tree, container, "fixed hidden")
	inner := div(t, tree, hidden, "fixed")
	shown := div(t, tree, container, "fixed")

	ctx := layoutWith(t, tree, rowContainerCSS+`.hidden { display: none; }`)
	assertBounds(t, ctx, shown, Rect{0, 0, 60, 40})
	assert.Zero(t, ctx.Bounds(hidden).Width)

	res := ctx.Result()
	_, found := res.Find(hidden)
	assert.False(t, found)
	_, found = res.Find(inner)
	assert.False(t, found)
}

func TestContentSizedFlexContainers(t *testing.T) {
	tree := dom.NewTree()
	row := div(t, tree, dom.RootID, "row")
	short := div(t, tree, row, "short")
	tall := div(t, tree, row, "tall")
	col := div(t, tree, dom.RootID, "col")
	var cells []dom.NodeID
	for i := 0; i < 3; i++ {
		cells = append(cells, div(t, tree, col, "cell"))
	}

	ctx := layoutWith(t, tree, `
		.row { display: flex; padding: 5px; }
		.short { width: 10px; height: 40px; }
		.tall { width: 10px; height: 60px; }
		.col { display: flex; flex-direction: column; flex-wrap: wrap; }
		.cell { height: 40px; }
	`)
	// 宽度未声明按确定尺寸处理，项目不内缩；高度由内容决定，从内容区起点排列。
	assertBounds(t, ctx, row, Rect{0, 0, 800, 70})
	assertBounds(t, ctx, short, Rect{0, 5, 10, 40})
	assertBounds(t, ctx, tall, Rect{10, 5, 10, 60})

	assertBounds(t, ctx, col, Rect{0, 70, 800, 120})
	for i, id := range cells {
		assertBounds(t, ctx, id, Rect{0, 70 + float64(i)*40, 800, 40})
	}
}

func TestBlockFlowStacksChildren(t *testing.T) {
	tree := dom.NewTree()
	outer := div(t, tree, dom.RootID, "outer")
	a := div(t, tree, outer, "a")
	text(t, tree, outer, "   ")
	words := text(t, tree, outer, "some words")
	b := div(t, tree, outer, "b")

	ctx := layoutWith(t, tree, `
		.outer { width: 300px; padding: 10px 20px; border-width: 1px; }
		.a { height: 25px; }
		.b { width: 50%; height: 5px; }
	`)
	assertBounds(t, ctx, a, Rect{21, 11, 258, 25})
	assertBounds(t, ctx, words, Rect{21, 36, 258, 30})
	assertBounds(t, ctx, b, Rect{21, 66, 129, 5})
	assertBounds(t, ctx, outer, Rect{0, 0, 300, 82})
}

func TestLayoutIsDeterministic(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	div(t, tree, container, "fixed grow")
	nested := div(t, tree, container, "nested")
	div(t, tree, nested, "fixed")
	text(t, tree, nested, "label")

	css := rowContainerCSS + `.nested { display: flex; flex-direction: column; flex: 1; }`
	ctx := layoutWith(t, tree, css)
	first := ctx.Result()
	ctx.Layout()
	second := ctx.Result()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("两次布局结果不同 (-first +second):\n%s", diff)
	}

	again := layoutWith(t, tree, css).Result()
	if diff := cmp.Diff(first, again); diff != "" {
		t.Fatalf("新的上下文结果不同 (-first +again):\n%s", diff)
	}
}

func TestEmptyContainerIsNoop(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	text(t, tree, container, " ")
	ctx := layoutWith(t, tree, rowContainerCSS)
	assertBounds(t, ctx, container, Rect{0, 0, 400, 200})
	assert.Len(t, ctx.Result().Boxes, 2)
}

func TestNestedContainerKeepsDefiniteHeight(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	row := div(t, tree, container, "inner")
	leaf := div(t, tree, row, "leaf")

	ctx := layoutWith(t, tree, rowContainerCSS+`
		.inner { display: flex; flex-grow: 1; }
		.leaf { width: 30px; }
	`)
	// 内层容器的高度由外层拉伸得到，单行时叶子按该高度拉伸。
	assertBounds(t, ctx, row, Rect{0, 0, 400, 200})
	assertBounds(t, ctx, leaf, Rect{0, 0, 30, 200})

	tree = dom.NewTree()
	container = div(t, tree, dom.RootID, "container")
	col := div(t, tree, container, "inner")
	leaf = div(t, tree, col, "leaf")

	ctx = layoutWith(t, tree, rowContainerCSS+`
		.inner { display: flex; flex-direction: column; flex-grow: 1; }
		.leaf { height: 20px; flex-grow: 1; }
	`)
	assertBounds(t, ctx, col, Rect{0, 0, 400, 200})
	assertBounds(t, ctx, leaf, Rect{0, 0, 400, 200})
}

func TestFlexBasisAndShrinkToFit(t *testing.T) {
	cases := []struct {
		name      string
		container string
		item      string
		want      Rect
	}{
		{"row/children", "container", "", Rect{0, 0, 60, 200}},
		{"row/width", "container", "width: 150px;", Rect{0, 0, 150, 200}},
		{"row/basis", "container", "flex-basis: 150px;", Rect{0, 0, 150, 200}},
		{"row/basis-auto", "container", "flex-basis: auto;", Rect{0, 0, 60, 200}},
		{"row/basis-over-width", "container", "width: 80px; flex-basis: 120px;", Rect{0, 0, 120, 200}},
		{"row/basis-percent", "container", "flex-basis: 25%;", Rect{0, 0, 100, 200}},
		{"row/flex-none", "container", "flex: none;", Rect{0, 0, 60, 200}},
		{"column/children", "column", "", Rect{0, 0, 400, 40}},
		{"column/height", "column", "height: 90px;", Rect{0, 0, 400, 90}},
		{"column/basis", "column", "flex-basis: 70px;", Rect{0, 0, 400, 70}},
		{"column/basis-percent", "column", "flex-basis: 50%;", Rect{0, 0, 400, 100}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := dom.NewTree()
			container := div(t, tree, dom.RootID, c.container)
			item := div(t, tree, container, "item")
			div(t, tree, item, "fixed")

			ctx := layoutWith(t, tree, rowContainerCSS+`
				.column { display: flex; flex-direction: column; width: 400px; height: 200px; }
				.item { `+c.item+` }
			`)
			assertBounds(t, ctx, item, c.want)
		})
	}
}

func TestShrinkToFitPercentChildUsesItemSize(t *testing.T) {
	tree := dom.NewTree()
	container := div(t, tree, dom.RootID, "container")
	item := div(t, tree, container, "item")
	div(t, tree, item, "half")
	sized := div(t, tree, container, "sized")
	div(t, tree, sized, "half")

	ctx := layoutWith(t, tree, rowContainerCSS+`
		.half { width: 50%; height: 40px; }
		.sized { height: 100px; }
	`)
	// 项目宽度未声明，子节点的百分比宽度无法解析，退回占位宽度。
	assertBounds(t, ctx, item, Rect{0, 0, 100, 200})
	assertBounds(t, ctx, sized, Rect{100, 0, 100, 100})

	tree = dom.NewTree()
	col := div(t, tree, dom.RootID, "column")
	item = div(t, tree, col, "item")
	div(t, tree, item, "tall")

	ctx = layoutWith(t, tree, `
		.column { display: flex; flex-direction: column; width: 400px; height: 200px; }
		.tall { height: 50%; }
	`)
	assertBounds(t, ctx, item, Rect{0, 0, 400, PlaceholderHeight})
}
