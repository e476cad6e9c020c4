package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

type fixture struct {
	tree    *dom.Tree
	card    dom.NodeID
	title   dom.NodeID
	plain   dom.NodeID
	text    dom.NodeID
	nested  dom.NodeID
	deepest dom.NodeID
}

// <body>
//
//	<div class="card wide" id="main">
//	  <span class="title"></span>
//	  <div><p class="title"></p></div>
//	  "text"
//	</div>
//	<div></div>
//
// </body>
func buildFixture(t *testing.T) fixture {
	t.Helper()
	tree := dom.NewTree()
	f := fixture{tree: tree}
	f.card = tree.CreateElement("div")
	f.title = tree.CreateElement("span")
	f.nested = tree.CreateElement("div")
	f.deepest = tree.CreateElement("p")
	f.text = tree.CreateText("text")
	f.plain = tree.CreateElement("div")

	require.NoError(t, tree.SetAttribute(f.card, "class", "card wide"))
	require.NoError(t, tree.SetAttribute(f.card, "id", "main"))
	require.NoError(t, tree.SetAttribute(f.title, "class", "title"))
	require.NoError(t, tree.SetAttribute(f.deepest, "class", "title"))

	require.NoError(t, tree.AppendChild(dom.RootID, f.card))
	require.NoError(t, tree.AppendChild(f.card, f.title))
	require.NoError(t, tree.AppendChild(f.card, f.nested))
	require.NoError(t, tree.AppendChild(f.nested, f.deepest))
	require.NoError(t, tree.AppendChild(f.card, f.text))
	require.NoError(t, tree.AppendChild(dom.RootID, f.plain))
	return f
}

func resolver(t *testing.T, f fixture, css string) *style.Resolver {
	t.Helper()
	logger := zaptest.NewLogger(t)
	sheet, err := style.ParseSheet("test.css", css, logger)
	require.NoError(t, err)
	return style.NewResolver(f.tree, sheet, logger)
}

func TestLastMatchingRuleWins(t *testing.T) {
	f := buildFixture(t)
	r := resolver(t, f, `
		#main { width: 100px; height: 10px }
		.card { width: 200px }
		div   { flex-grow: 3 }
		.wide { width: 300px }
	`)

	s := r.Resolve(f.card, style.Style{}, style.Style{})
	assert.Equal(t, style.Px(300), *s.Width, "后出现的规则覆盖先出现的规则，不考虑选择器优先级")
	assert.Equal(t, style.Px(10), *s.Height)
	assert.Equal(t, 3.0, s.Grow())
}

func TestSelectorKinds(t *testing.T) {
	f := buildFixture(t)
	r := resolver(t, f, `
		* { order: 1 }
		div.card { flex-grow: 1 }
		.card > .title { flex-shrink: 2 }
		.card .title { width: 5px }
		span:hover { width: 99px }
		p, span { height: 7px }
	`)

	title := r.Resolve(f.title, style.Style{}, style.Style{})
	assert.Equal(t, 1, title.OrderValue())
	assert.Equal(t, 2.0, title.Shrink())
	assert.Equal(t, style.Px(5), *title.Width, "伪类选择器不匹配")
	assert.Equal(t, style.Px(7), *title.Height)

	deepest := r.Resolve(f.deepest, style.Style{}, style.Style{})
	assert.Nil(t, deepest.FlexShrink, "子选择器只匹配直接子节点")
	assert.Equal(t, style.Px(5), *deepest.Width, "后代选择器匹配任意层级")

	card := r.Resolve(f.card, style.Style{}, style.Style{})
	assert.Equal(t, 1.0, card.Grow())

	nested := r.Resolve(f.nested, style.Style{}, style.Style{})
	assert.Nil(t, nested.FlexGrow, "div.card 要求同时满足类型与类名")
}

func TestInlineStyleAndCachedStyle(t *testing.T) {
	f := buildFixture(t)
	require.NoError(t, f.tree.SetAttribute(f.card, "style", "width: 42px; bogus-prop: 1"))
	r := resolver(t, f, `.card { width: 10px; height: 20px }`)

	cached := style.Style{FlexGrow: ptr(4.0), Height: ptr(style.Px(1))}
	s := r.Resolve(f.card, cached, style.Style{})
	assert.Equal(t, style.Px(42), *s.Width, "style 属性优先于规则")
	assert.Equal(t, style.Px(20), *s.Height, "规则覆盖缓存样式")
	assert.Equal(t, 4.0, s.Grow(), "未被覆盖的缓存属性保留")
	assert.Equal(t, style.Px(1), *cached.Height, "缓存样式本身不变")

	// 结果幂等
	again := r.Resolve(f.card, s, style.Style{})
	assert.Equal(t, s.Width, again.Width)
	assert.Equal(t, *s.Height, *again.Height)
}

func TestAnonymousItemsInheritDisplay(t *testing.T) {
	f := buildFixture(t)
	r := resolver(t, f, `div { display: block }`)
	flex := style.Style{Display: ptr(style.DisplayFlex)}

	assert.Equal(t, style.DisplayFlex, r.Resolve(f.plain, style.Style{}, flex).DisplayValue(),
		"无属性无子节点的元素沿用容器 display")
	assert.Equal(t, style.DisplayFlex, r.Resolve(f.text, style.Style{}, flex).DisplayValue())
	assert.Equal(t, style.DisplayBlock, r.Resolve(f.nested, style.Style{}, flex).DisplayValue(),
		"有子节点的元素不是匿名项")
}

func TestSheetAppendOrder(t *testing.T) {
	f := buildFixture(t)
	logger := zaptest.NewLogger(t)
	first, err := style.ParseSheet("a.css", ".card { width: 1px }", logger)
	require.NoError(t, err)
	second, err := style.ParseSheet("b.css", ".wide { width: 2px }", logger)
	require.NoError(t, err)
	first.Append(second)
	first.Append(nil)

	r := style.NewResolver(f.tree, first, logger)
	assert.Equal(t, style.Px(2), *r.Resolve(f.card, style.Style{}, style.Style{}).Width)

	_, err = style.ParseSheet("bad.css", ".card { width: 1px", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.css")
}

func ptr[T any](v T) *T { return &v }
