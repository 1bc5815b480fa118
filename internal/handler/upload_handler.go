package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuj/lcforum/internal/service"
)

// ShowUpload 渲染附件上传表单
func (a *API) ShowUpload(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", gin.H{
		"title":  "上传附件",
		"errors": gin.H{},
		"form":   gin.H{"remark": ""},
		"next":   c.DefaultQuery("next", "/"),
		"year":   time.Now().Year(),
	})
}

// Upload 保存上传的文件并建立附件记录。文件统一重命名存储，
// 图片元信息由保存流程探测，非图片文件同样允许上传。
func (a *API) Upload(c *gin.Context) {
	next := c.DefaultPostForm("next", c.DefaultQuery("next", "/"))
	remark := c.PostForm("remark")

	file, err := c.FormFile("attachment")
	if err != nil {
		c.HTML(http.StatusBadRequest, "upload.html", gin.H{
			"title":  "上传附件",
			"errors": gin.H{"attachment": "请选择要上传的文件"},
			"form":   gin.H{"remark": remark},
			"next":   next,
			"year":   time.Now().Year(),
		})
		return
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		a.renderServerError(c, "")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	storedPath := filepath.Join(a.cfg.UploadDir, newFilename)

	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		a.renderServerError(c, "")
		return
	}

	payload, err := os.Open(storedPath)
	if err != nil {
		a.renderServerError(c, "")
		return
	}
	defer payload.Close()

	var userID *uint
	if user := a.currentUser(c); user != nil {
		id := user.ID
		userID = &id
	}

	if _, err := a.attachments.Create(service.AttachmentInput{
		FileName: file.Filename,
		FilePath: storedPath,
		Remark:   remark,
		UserID:   userID,
		Payload:  payload,
	}); err != nil {
		a.renderServerError(c, "")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// ShowAttachment 渲染附件详情页，未知 ID 返回 404。
func (a *API) ShowAttachment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	attachment, err := a.attachments.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "attachment_detail.html", gin.H{
		"title":      attachment.FileName,
		"attachment": attachment,
		"fileURL":    path.Join(a.cfg.UploadURLPath, filepath.Base(attachment.FilePath)),
		"year":       time.Now().Year(),
	})
}

// ListAttachments 渲染分页的附件列表，每页 15 条。
func (a *API) ListAttachments(c *gin.Context) {
	result, err := a.attachments.List(pageParam(c), 15)
	if err != nil {
		a.renderServerError(c, "")
		return
	}

	c.HTML(http.StatusOK, "attachment_list.html", gin.H{
		"title":       "附件",
		"attachments": result.Attachments,
		"page":        result.Page,
		"totalPages":  result.TotalPages,
		"year":        time.Now().Year(),
	})
}
