package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/db"
)

// ShowIndex 渲染站点首页：最新帖子与回复，以及官方内容的头条区。
// 空数据库时各列表为空、headline 为 nil，不报错。
func (a *API) ShowIndex(c *gin.Context) {
	posts, err := a.posts.Latest(10)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	replies, err := a.replies.Latest(10)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	bygodPosts, err := a.posts.LatestBygod(7)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	var headline *db.Post
	var adminPosts []db.Post
	if len(bygodPosts) > 0 {
		headline = &bygodPosts[0]
		adminPosts = bygodPosts[1:]
	}

	adminReplies, err := a.replies.LatestBygod(5)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":            a.cfg.SiteName,
		"postLatest":       posts,
		"replyLatest":      replies,
		"headline":         headline,
		"adminPostLatest":  adminPosts,
		"adminReplyLatest": adminReplies,
		"year":             time.Now().Year(),
	})
}

// ShowForumIndex 渲染分页的帖子总列表，p 为页码参数，每页 25 条。
func (a *API) ShowForumIndex(c *gin.Context) {
	result, err := a.posts.List(pageParam(c), 25)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "post_list.html", gin.H{
		"title":      "论坛",
		"posts":      result.Posts,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"year":       time.Now().Year(),
	})
}

// ShowThread 渲染帖子详情页，回复按楼层顺序分页展示，每页 20 条。
func (a *API) ShowThread(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	replies, err := a.replies.ListForPost(post.ID, pageParam(c), 20)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "post_detail.html", gin.H{
		"title":      post.Title,
		"post":       post,
		"replies":    replies.Replies,
		"page":       replies.Page,
		"totalPages": replies.TotalPages,
		"year":       time.Now().Year(),
	})
}

// ShowNodeList 渲染全部节点列表。
func (a *API) ShowNodeList(c *gin.Context) {
	nodes, err := a.nodes.List()
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "node_list.html", gin.H{
		"title": "节点",
		"nodes": nodes,
		"year":  time.Now().Year(),
	})
}

// ShowNodeDetail 渲染节点下的帖子列表，未知代号返回 404。
func (a *API) ShowNodeDetail(c *gin.Context) {
	node, err := a.nodes.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	result, err := a.posts.ListByNode(node.ID, pageParam(c), 25)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "node_detail.html", gin.H{
		"title":      node.Name,
		"node":       node,
		"posts":      result.Posts,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"year":       time.Now().Year(),
	})
}

func (a *API) renderServerError(c *gin.Context, message string) {
	if message == "" {
		message = "加载数据失败，请稍后重试"
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title": "出错了",
		"error": message,
		"year":  time.Now().Year(),
	})
}
