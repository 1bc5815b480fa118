package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/service"
)

// ShowPostForm 渲染发帖表单，字段集按请求者角色当场计算。
func (a *API) ShowPostForm(c *gin.Context) {
	node, err := a.nodes.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	user := a.currentUser(c)
	c.HTML(http.StatusOK, "post_form.html", gin.H{
		"title":  "发表新帖",
		"node":   node,
		"fields": allowedFields(user, true),
		"errors": gin.H{},
		"form": gin.H{
			"title":             "",
			"content":           "",
			"guest_name":        "",
			"guest_email":       "",
			"need_notification": true,
			"bygod":             false,
		},
		"year": time.Now().Year(),
	})
}

// CreatePost 处理发帖提交。作者、节点和 IP 由服务端决定，
// 越权提交的字段（如非管理员的 bygod）会被忽略或覆盖。
func (a *API) CreatePost(c *gin.Context) {
	node, err := a.nodes.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	user := a.currentUser(c)
	fields := allowedFields(user, true)

	nodeID := node.ID
	input := service.PostInput{
		Author: user,
		NodeID: &nodeID,
		IPAddr: c.ClientIP(),
	}

	if hasField(fields, "title") {
		input.Title = c.PostForm("title")
	}
	if hasField(fields, "content") {
		input.Content = c.PostForm("content")
	}
	if hasField(fields, "guest_name") {
		input.GuestName = c.PostForm("guest_name")
		input.GuestEmail = c.PostForm("guest_email")
	}
	if hasField(fields, "need_notification") {
		input.NeedNotification = c.PostForm("need_notification") != ""
	}
	if hasField(fields, "bygod") {
		input.Bygod = c.PostForm("bygod") != ""
	}

	post, err := a.posts.Create(input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusBadRequest, "post_form.html", gin.H{
				"title":  "发表新帖",
				"node":   node,
				"fields": fields,
				"errors": verr.Fields,
				"form": gin.H{
					"title":             c.PostForm("title"),
					"content":           c.PostForm("content"),
					"guest_name":        c.PostForm("guest_name"),
					"guest_email":       c.PostForm("guest_email"),
					"need_notification": c.PostForm("need_notification") != "",
					"bygod":             c.PostForm("bygod") != "",
				},
				"year": time.Now().Year(),
			})
			return
		}

		a.renderServerError(c, "")
		return
	}

	c.Redirect(http.StatusFound, post.AbsoluteURL())
}
