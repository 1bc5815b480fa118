package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuj/lcforum/internal/db"
)

func TestNodeService_CreateValidates(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewNodeService(gdb)

	_, err := svc.Create(NodeInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["name"] != "节点的名称不能为空" {
		t.Fatalf("unexpected name message: %q", verr.Fields["name"])
	}
	if verr.Fields["slug"] != "节点代号不能为空" {
		t.Fatalf("unexpected slug message: %q", verr.Fields["slug"])
	}

	_, err = svc.Create(NodeInput{Name: strings.Repeat("名", 51), Slug: strings.Repeat("s", 31)})
	if !errors.As(err, &verr) {
		t.Fatalf("expected length validation error, got %v", err)
	}
	if verr.Fields["name"] != "节点名称的长度不能超过50个字符" {
		t.Fatalf("unexpected name length message: %q", verr.Fields["name"])
	}
	if verr.Fields["slug"] != "节点代号的长度不能超过30个字符" {
		t.Fatalf("unexpected slug length message: %q", verr.Fields["slug"])
	}
}

func TestNodeService_CreateRejectsDuplicates(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewNodeService(gdb)

	if _, err := svc.Create(NodeInput{Name: "技术", Slug: "tech"}); err != nil {
		t.Fatalf("create node: %v", err)
	}

	_, err := svc.Create(NodeInput{Name: "技术", Slug: "tech2"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["name"] != "同名节点已经存在" {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	_, err = svc.Create(NodeInput{Name: "技术二", Slug: "tech"})
	if !errors.As(err, &verr) || verr.Fields["slug"] != "同代号节点已经存在" {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}
}

func TestNodeService_GetBySlug(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewNodeService(gdb)

	created, err := svc.Create(NodeInput{Name: "生活", Slug: "life", Description: "日常"})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}

	node, err := svc.GetBySlug("life")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if node.ID != created.ID || node.Description != "日常" {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.AbsoluteURL() != "/forum/node/life/" {
		t.Fatalf("unexpected node url %q", node.AbsoluteURL())
	}

	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestNodeService_DeleteDetachesPosts(t *testing.T) {
	gdb := setupForumTestDB(t)
	nodes := NewNodeService(gdb)
	posts := NewPostService(gdb)

	node, err := nodes.Create(NodeInput{Name: "临时", Slug: "temp"})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	post, err := posts.Create(PostInput{Title: "挂在节点下", Content: "内容", NodeID: &node.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := nodes.Delete(node.ID); err != nil {
		t.Fatalf("delete node: %v", err)
	}

	var survivor db.Post
	if err := gdb.First(&survivor, post.ID).Error; err != nil {
		t.Fatalf("post should survive node deletion: %v", err)
	}
	if survivor.NodeID != nil {
		t.Fatalf("post node_id should be cleared, got %v", *survivor.NodeID)
	}

	var count int64
	if err := gdb.Model(&db.NodeTag{}).Where("id = ?", node.ID).Count(&count).Error; err != nil {
		t.Fatalf("count nodes: %v", err)
	}
	if count != 0 {
		t.Fatalf("node should be gone")
	}
}
