package handler_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/xuj/lcforum/internal/db"
	"github.com/xuj/lcforum/internal/service"
)

func seedOfficialAndRegular(t *testing.T, env *forumTestEnv) (*db.Post, *db.Post) {
	t.Helper()
	posts := service.NewPostService(env.db)

	admin := db.User{Username: "root", Password: "x", IsSuperuser: true}
	if err := env.db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	official, err := posts.Create(service.PostInput{Title: "官方公告", Content: "公告**内容**", Bygod: true, Author: &admin})
	if err != nil {
		t.Fatalf("create official post: %v", err)
	}
	regular, err := posts.Create(service.PostInput{Title: "普通帖子", Content: "普通内容"})
	if err != nil {
		t.Fatalf("create regular post: %v", err)
	}
	return official, regular
}

func TestRSSFeedOnlyOfficialPosts(t *testing.T) {
	env := setupForumEnv(t)
	official, regular := seedOfficialAndRegular(t, env)

	w := env.get(t, "/rss/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/rss+xml") {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, `<rss version="2.0">`) {
		t.Fatalf("feed should be rss 2.0, got %q", body)
	}
	if !strings.Contains(body, official.Title) {
		t.Fatalf("feed should carry the official post")
	}
	if strings.Contains(body, regular.Title) {
		t.Fatalf("regular posts must not appear in the feed")
	}
	if !strings.Contains(body, env.cfg.SiteBaseURL+official.AbsoluteURL()) {
		t.Fatalf("item link should be absolute")
	}
	// 描述是渲染后的 HTML，经 xml 序列化会被转义
	if !strings.Contains(body, "&lt;strong&gt;内容&lt;/strong&gt;") {
		t.Fatalf("description should be the rendered html, got %q", body)
	}
}

func TestSitemapPriorities(t *testing.T) {
	env := setupForumEnv(t)
	official, regular := seedOfficialAndRegular(t, env)

	w := env.get(t, "/sitemap.xml")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Fatalf("missing sitemap namespace")
	}

	officialEntry := fmt.Sprintf("<loc>%s%s</loc>", env.cfg.SiteBaseURL, official.AbsoluteURL())
	regularEntry := fmt.Sprintf("<loc>%s%s</loc>", env.cfg.SiteBaseURL, regular.AbsoluteURL())
	if !strings.Contains(body, officialEntry) || !strings.Contains(body, regularEntry) {
		t.Fatalf("sitemap should list both posts, got %q", body)
	}

	officialIdx := strings.Index(body, officialEntry)
	officialBlock := body[officialIdx:]
	if end := strings.Index(officialBlock, "</url>"); end >= 0 {
		officialBlock = officialBlock[:end]
	}
	if !strings.Contains(officialBlock, "<priority>0.7</priority>") {
		t.Fatalf("official post should weigh 0.7, block %q", officialBlock)
	}

	regularIdx := strings.Index(body, regularEntry)
	regularBlock := body[regularIdx:]
	if end := strings.Index(regularBlock, "</url>"); end >= 0 {
		regularBlock = regularBlock[:end]
	}
	if !strings.Contains(regularBlock, "<priority>0.5</priority>") {
		t.Fatalf("regular post should weigh 0.5, block %q", regularBlock)
	}
}

func TestRSSFeedEmptyDatabase(t *testing.T) {
	env := setupForumEnv(t)

	w := env.get(t, "/rss/")
	if w.Code != http.StatusOK {
		t.Fatalf("empty feed should still render, got %d", w.Code)
	}

	w = env.get(t, "/sitemap.xml")
	if w.Code != http.StatusOK {
		t.Fatalf("empty sitemap should still render, got %d", w.Code)
	}
}
