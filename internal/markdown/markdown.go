package markdown

import (
	"bytes"

	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.abhg.dev/goldmark/toc"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("friendly"),
			// 行内样式而非 CSS class，代码块不带行号
			highlighting.WithFormatOptions(
				html.WithClasses(false),
			),
		),
		&toc.Extender{
			Title: "目录",
		},
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// 原始 HTML 不会被 goldmark 透传（默认被替换为注释），
// 渲染结果再经 bluemonday 清洗一遍。允许 style 属性以保留行内高亮样式。
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").OnElements("span", "pre", "code")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li")
	return p
}()

// Render 将 Markdown 原文转换为净化后的 HTML。
// 同样的输入总是产生同样的输出，Post/Reply 每次保存时都会重渲染。
func Render(content string) (string, error) {
	if content == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}

	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
