package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	out, err := Render("段落里有**加粗**和*斜体*")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>加粗</strong>") {
		t.Fatalf("expected strong tag, got %q", out)
	}
	if !strings.Contains(out, "<em>斜体</em>") {
		t.Fatalf("expected em tag, got %q", out)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	out, err := Render("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("empty input should render to empty string, got %q", out)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first, err := Render("# 标题\n\n内容")
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := Render("# 标题\n\n内容")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Fatalf("same input should render identically")
	}
}

func TestRenderStripsRawHTML(t *testing.T) {
	out, err := Render("正文<script>alert('x')</script><img src=x onerror=alert(1)>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "onerror") {
		t.Fatalf("dangerous html should be stripped, got %q", out)
	}
	if !strings.Contains(out, "正文") {
		t.Fatalf("plain text should survive, got %q", out)
	}
}

func TestRenderGFMTable(t *testing.T) {
	out, err := Render("| 甲 | 乙 |\n| --- | --- |\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Fatalf("expected table markup, got %q", out)
	}
}

func TestRenderHighlightsFencedCode(t *testing.T) {
	out, err := Render("```go\nfunc main() {}\n```")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<pre") {
		t.Fatalf("expected pre block, got %q", out)
	}
	// 高亮以行内 style 输出，净化之后必须仍然保留
	if !strings.Contains(out, "style=") {
		t.Fatalf("inline highlight styles should survive sanitizing, got %q", out)
	}
}

func TestRenderHeadingIDsAndTOC(t *testing.T) {
	out, err := Render("# 第一节\n\n正文\n\n# 第二节\n\n正文")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "id=") {
		t.Fatalf("headings should carry auto ids, got %q", out)
	}
	if !strings.Contains(out, "目录") {
		t.Fatalf("expected generated table of contents, got %q", out)
	}
}
