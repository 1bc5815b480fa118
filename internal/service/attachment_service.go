package service

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/xuj/lcforum/internal/db"
	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// AttachmentService wraps attachment database operations and image probing.
type AttachmentService struct {
	db *gorm.DB
}

// AttachmentInput represents fields accepted when uploading a file.
type AttachmentInput struct {
	FileName string
	FilePath string
	Remark   string
	UserID   *uint
	Payload  io.Reader
}

// AttachmentListResult aggregates paginated attachment data.
type AttachmentListResult struct {
	Attachments []db.Attachment
	Total       int64
	TotalPages  int
	Page        int
	PerPage     int
}

// ImageInfo 是对上传内容做图片探测的结果。
type ImageInfo struct {
	IsImage bool
	Format  string
	Width   int
	Height  int
}

// NewAttachmentService creates an AttachmentService instance.
func NewAttachmentService(gdb *gorm.DB) *AttachmentService {
	return &AttachmentService{db: gdb}
}

// Inspect 尝试把输入流当作图片解码出格式和尺寸。
// 解码失败不是错误：返回非图片默认值，附件照常保存。
func Inspect(r io.Reader) ImageInfo {
	if r == nil {
		return ImageInfo{}
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}
	}

	return ImageInfo{
		IsImage: true,
		Format:  strings.ToUpper(format),
		Width:   cfg.Width,
		Height:  cfg.Height,
	}
}

// Create 保存一条附件记录，保存前探测图片元信息。
func (s *AttachmentService) Create(input AttachmentInput) (*db.Attachment, error) {
	verr := newValidationError()
	if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.FilePath) == "" {
		verr.Fields["attachment"] = "请选择要上传的文件"
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	info := Inspect(input.Payload)

	attachment := db.Attachment{
		FileName:    input.FileName,
		FilePath:    input.FilePath,
		Remark:      strings.TrimSpace(input.Remark),
		UserID:      input.UserID,
		IsImage:     info.IsImage,
		ImageFormat: info.Format,
		Width:       info.Width,
		Height:      info.Height,
	}

	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// UpdateRemark 更新备注。图片探测在每次保存时重跑，而不只是首次上传。
func (s *AttachmentService) UpdateRemark(id uint, remark string) (*db.Attachment, error) {
	attachment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	info := s.inspectStored(attachment.FilePath)
	attachment.IsImage = info.IsImage
	attachment.ImageFormat = info.Format
	attachment.Width = info.Width
	attachment.Height = info.Height
	attachment.Remark = strings.TrimSpace(remark)

	if err := s.db.Save(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *AttachmentService) inspectStored(path string) ImageInfo {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}
	}
	defer f.Close()
	return Inspect(f)
}

// Get fetches an attachment by id with its uploader preloaded.
func (s *AttachmentService) Get(id uint) (*db.Attachment, error) {
	var attachment db.Attachment
	if err := s.db.Preload("User").First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// List provides paginated attachments, newest first.
func (s *AttachmentService) List(page, perPage int) (*AttachmentListResult, error) {
	result := &AttachmentListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 15),
	}

	if err := s.db.Model(&db.Attachment{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := s.db.Preload("User").
		Order("id desc").Limit(result.PerPage).Offset(offset).
		Find(&result.Attachments).Error; err != nil {
		return nil, err
	}

	return result, nil
}
