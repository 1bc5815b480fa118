package handler

import (
	"bufio"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/db"
	"github.com/xuj/lcforum/internal/logger"
	"github.com/xuj/lcforum/internal/service"
)

const quoteLineLimit = 13

// ShowReplyForm 渲染回复表单。带 reply_id 时为引用回复，
// 初始内容预填被引用内容的摘录。
func (a *API) ShowReplyForm(c *gin.Context) {
	post, cited, ok := a.resolveReplyTarget(c)
	if !ok {
		return
	}

	initialContent := ""
	if cited != nil {
		citedAuthor, _ := cited.AuthorDisplay()
		initialContent = quoteExcerpt(citedAuthor, cited.Content)
	}

	user := a.currentUser(c)
	c.HTML(http.StatusOK, "reply_form.html", gin.H{
		"title":  "回复：" + post.Title,
		"post":   post,
		"cited":  cited,
		"fields": allowedFields(user, false),
		"errors": gin.H{},
		"form": gin.H{
			"content":           initialContent,
			"guest_name":        "",
			"guest_email":       "",
			"need_notification": true,
			"bygod":             false,
		},
		"year": time.Now().Year(),
	})
}

// CreateReply 处理回复提交。标题、作者、归属帖子、引用对象和 IP
// 全部由服务端决定；保存成功后派发回复通知。
func (a *API) CreateReply(c *gin.Context) {
	post, cited, ok := a.resolveReplyTarget(c)
	if !ok {
		return
	}

	user := a.currentUser(c)
	fields := allowedFields(user, false)

	input := service.ReplyInput{
		Author:     user,
		IPAddr:     c.ClientIP(),
		PostNodeID: post.ID,
	}
	if cited != nil {
		citedID := cited.ID
		input.ReplyToID = &citedID
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

	reply, err := a.replies.Create(input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusBadRequest, "reply_form.html", gin.H{
				"title":  "回复：" + post.Title,
				"post":   post,
				"cited":  cited,
				"fields": fields,
				"errors": verr.Fields,
				"form": gin.H{
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

	// 通知在回复落库之后派发；邮件传输失败只记录日志，不影响本次回复
	if err := a.notifier.NotifyReply(reply); err != nil {
		if logger.Sugar != nil {
			logger.Sugar.Warnw("reply notification failed", "reply_id", reply.ID, "err", err)
		}
	}

	c.Redirect(http.StatusFound, reply.AbsoluteURL())
}

// resolveReplyTarget 解析 URL 中的帖子和可选的被引用回复，缺失时写出 404。
func (a *API) resolveReplyTarget(c *gin.Context) (*db.Post, *db.Reply, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, nil, false
	}

	post, err := a.posts.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, nil, false
	}

	var cited *db.Reply
	if raw := c.Param("reply_id"); raw != "" {
		citedID, err := parseUintParam(c, "reply_id")
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return nil, nil, false
		}
		cited, err = a.replies.Get(citedID)
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return nil, nil, false
		}
	}

	return post, cited, true
}

// quoteExcerpt 把被引用回复的内容转成块引用，最多保留前 13 行，
// 超出部分以省略标记结尾。用 ``` 包裹的多行代码块在引用后
// 不能正确渲染，这是沿袭下来的已知表现。
func quoteExcerpt(citedAuthor, content string) string {
	var b strings.Builder
	b.WriteString("\r\n> **以下内容引用自")
	b.WriteString(citedAuthor)
	b.WriteString("发表的回复：**\r\n> \r\n")

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		if lineNo >= quoteLineLimit {
			b.WriteString("> \r\n> ...*(以下内容在引用时被省略)*")
			break
		}
		b.WriteString("> ")
		b.WriteString(scanner.Text())
		b.WriteString("\r\n")
		lineNo++
	}

	return b.String()
}
