// Package dsl 解析布局引擎使用的 CSS 子集：选择器规则与声明列表。
package dsl

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	cssLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "Whitespace", Pattern: `[ \t\r\n\f]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
		{Name: "Hash", Pattern: `#[-A-Za-z0-9_]+`},
		{Name: "Dimension", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[A-Za-z]+|%)?`},
		{Name: "Ident", Pattern: `-?[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[.,:;!*>+~()=\[\]/]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	parserOptions = []participle.Option{
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	}

	stylesheetParser  = participle.MustBuild[Stylesheet](parserOptions...)
	declarationParser = participle.MustBuild[DeclarationList](parserOptions...)
)

// Stylesheet 是样式表的根节点。
type Stylesheet struct {
	Rules []*Rule `parser:"@@*"`
}

// Rule 由逗号分隔的选择器组与声明块组成。
type Rule struct {
	Pos          lexer.Position `parser:"" json:"-"`
	Selectors    []*Selector    `parser:"@@ ( ',' @@ )*"`
	Declarations []*Declaration `parser:"'{' ( @@ | ';' )* '}'"`
}

// Selector 是一条复合选择器链，例如 `.card > .title` 或 `div.box`。
type Selector struct {
	Pos   lexer.Position  `parser:"" json:"-"`
	Parts []*SelectorPart `parser:"@@+"`
}

// SelectorPart 是选择器中的一个简单选择器，Child 表示前面是 `>` 组合符。
type SelectorPart struct {
	Child  bool            `parser:"@'>'?"`
	Simple *SimpleSelector `parser:"@@"`
}

// SimpleSelector 覆盖通配、类、ID、类型与伪类选择器。
type SimpleSelector struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Universal bool           `parser:"  @'*'"`
	Class     string         `parser:"| '.' @Ident"`
	ID        string         `parser:"| @Hash"`
	Type      string         `parser:"| @Ident"`
	Pseudo    string         `parser:"| ':' ':'? @Ident"`
}

// Width 返回该简单选择器在源文本中占用的字节数。
func (s *SimpleSelector) Width() int {
	switch {
	case s.Universal:
		return 1
	case s.Class != "":
		return 1 + len(s.Class)
	case s.ID != "":
		return len(s.ID)
	case s.Type != "":
		return len(s.Type)
	default:
		return 1 + len(s.Pseudo)
	}
}

func (s *SimpleSelector) String() string {
	switch {
	case s.Universal:
		return "*"
	case s.Class != "":
		return "." + s.Class
	case s.ID != "":
		return s.ID
	case s.Type != "":
		return s.Type
	default:
		return ":" + s.Pseudo
	}
}

// Compounds 将选择器按组合符拆分为复合选择器序列。
// 相邻且中间没有空白的简单选择器属于同一个复合选择器（如 `div.box`）。
func (s *Selector) Compounds() []Compound {
	var out []Compound
	prevEnd := -1
	for _, part := range s.Parts {
		if part.Simple == nil {
			continue
		}
		start := part.Simple.Pos.Offset
		if len(out) == 0 || part.Child || start != prevEnd {
			c := Compound{}
			switch {
			case len(out) == 0:
				c.Combinator = CombinatorNone
			case part.Child:
				c.Combinator = CombinatorChild
			default:
				c.Combinator = CombinatorDescendant
			}
			out = append(out, c)
		}
		last := &out[len(out)-1]
		last.Simple = append(last.Simple, part.Simple)
		prevEnd = start + part.Simple.Width()
	}
	return out
}

func (s *Selector) String() string {
	var b strings.Builder
	for i, c := range s.Compounds() {
		if i > 0 {
			if c.Combinator == CombinatorChild {
				b.WriteString(" > ")
			} else {
				b.WriteString(" ")
			}
		}
		for _, simple := range c.Simple {
			b.WriteString(simple.String())
		}
	}
	return b.String()
}

// Combinator 表示复合选择器与其左侧复合选择器的关系。
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
)

// Compound 是一组必须同时匹配同一节点的简单选择器。
type Compound struct {
	Combinator Combinator
	Simple     []*SimpleSelector
}

// DeclarationList 对应元素 style 属性中的声明序列。
type DeclarationList struct {
	Declarations []*Declaration `parser:"( @@ | ';' )*"`
}

// Declaration 为单条属性声明，值保留为原始词项，由样式层解释。
type Declaration struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Property  string         `parser:"@Ident ':'"`
	Values    []*Term        `parser:"@@+"`
	Important bool           `parser:"( '!' @'important' )?"`
}

// Term 是声明值中的一个词项。
type Term struct {
	Function *Function      `parser:"  @@"`
	Number   *string        `parser:"| @Dimension"`
	Hash     *string        `parser:"| @Hash"`
	String   *StringLiteral `parser:"| @String"`
	Ident    *string        `parser:"| @Ident"`
	Comma    bool           `parser:"| @','"`
	Slash    bool           `parser:"| @'/'"`
}

// Text 返回词项的文本形式（函数返回完整调用表达式）。
func (t *Term) Text() string {
	switch {
	case t == nil:
		return ""
	case t.Function != nil:
		args := make([]string, 0, len(t.Function.Args))
		for _, a := range t.Function.Args {
			args = append(args, a.Text())
		}
		return t.Function.Name + "(" + strings.Join(args, " ") + ")"
	case t.Number != nil:
		return *t.Number
	case t.Hash != nil:
		return *t.Hash
	case t.String != nil:
		return string(*t.String)
	case t.Ident != nil:
		return *t.Ident
	case t.Comma:
		return ","
	case t.Slash:
		return "/"
	default:
		return ""
	}
}

// Function 是形如 rgb(0, 0, 0) 的函数调用。
type Function struct {
	Name string  `parser:"@Ident '('"`
	Args []*Term `parser:"@@* ')'"`
}

// StringLiteral 在捕获时去掉引号并处理反斜杠转义，单双引号均可。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	raw := values[0]
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] || (raw[0] != '"' && raw[0] != '\'') {
		return fmt.Errorf("字符串字面量格式错误: %s", raw)
	}
	body := raw[1 : len(raw)-1]
	var b strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	*s = StringLiteral(b.String())
	return nil
}

// Parse 从 io.Reader 解析样式表。
func Parse(r io.Reader) (*Stylesheet, error) {
	return stylesheetParser.Parse("", r)
}

// ParseString 解析样式表字符串。
func ParseString(input string) (*Stylesheet, error) {
	return stylesheetParser.ParseString("", input)
}

// ParseNamed 解析样式表，错误信息中带上来源名称（通常为文件路径）。
func ParseNamed(name, input string) (*Stylesheet, error) {
	return stylesheetParser.ParseString(name, input)
}

// ParseDeclarations 解析 style 属性中的声明列表，例如 "width: 10px; flex: 1"。
func ParseDeclarations(input string) (*DeclarationList, error) {
	return declarationParser.ParseString("", input)
}
