package service

import (
	"errors"

	"github.com/xuj/lcforum/internal/db"
	"gorm.io/gorm"
)

var ErrReplyNotFound = errors.New("reply not found")

// ReplyService wraps reply related database operations.
type ReplyService struct {
	db *gorm.DB
}

// ReplyInput represents fields accepted when creating a reply.
// 标题不由调用方提供，保存时派生为 "Re:" 加父帖标题。
type ReplyInput struct {
	Content          string
	GuestName        string
	GuestEmail       string
	NeedNotification bool
	Bygod            bool
	Author           *db.User
	IPAddr           string
	PostNodeID       uint
	ReplyToID        *uint
}

// ReplyListResult aggregates paginated reply data.
type ReplyListResult struct {
	Replies    []db.Reply
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewReplyService creates a ReplyService instance.
func NewReplyService(gdb *gorm.DB) *ReplyService {
	return &ReplyService{db: gdb}
}

// Create persists a reply under the given post. The returned reply carries
// its parent post and cited reply preloaded so the caller can dispatch
// notifications without reloading.
func (s *ReplyService) Create(input ReplyInput) (*db.Reply, error) {
	var parent db.Post
	if err := s.db.Preload("Author").First(&parent, input.PostNodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var cited *db.Reply
	if input.ReplyToID != nil {
		var found db.Reply
		if err := s.db.Preload("Author").First(&found, *input.ReplyToID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrReplyNotFound
			}
			return nil, err
		}
		cited = &found
	}

	var reply db.Reply
	if err := fillPostBase(&reply.PostBase, baseInput{
		Title:            deriveReplyTitle(parent.Title),
		Content:          input.Content,
		GuestName:        input.GuestName,
		GuestEmail:       input.GuestEmail,
		NeedNotification: input.NeedNotification,
		Bygod:            input.Bygod,
		Author:           input.Author,
		IPAddr:           input.IPAddr,
	}); err != nil {
		return nil, err
	}

	parentID := parent.ID
	reply.PostNodeID = &parentID
	reply.ReplyToID = input.ReplyToID

	if err := s.db.Create(&reply).Error; err != nil {
		return nil, err
	}

	reply.PostNode = &parent
	reply.ReplyTo = cited
	return &reply, nil
}

// Get fetches a reply by id with its author preloaded.
func (s *ReplyService) Get(id uint) (*db.Reply, error) {
	var reply db.Reply
	if err := s.db.Preload("Author").First(&reply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReplyNotFound
		}
		return nil, err
	}
	return &reply, nil
}

// Latest returns the n most recent replies, newest first.
func (s *ReplyService) Latest(n int) ([]db.Reply, error) {
	var replies []db.Reply
	if err := s.db.Preload("Author").Preload("PostNode").
		Order("id desc").Limit(n).Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// LatestBygod 返回最近的 n 条官方回复。
func (s *ReplyService) LatestBygod(n int) ([]db.Reply, error) {
	var replies []db.Reply
	if err := s.db.Preload("Author").Preload("PostNode").
		Where("bygod = ?", true).Order("id desc").Limit(n).Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// ListForPost 返回某个帖子下的回复，按楼层（最早在前）排序分页。
// 这是唯一与实体默认新帖在前排序相反的列表。
func (s *ReplyService) ListForPost(postID uint, page, perPage int) (*ReplyListResult, error) {
	result := &ReplyListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 20),
	}

	if err := s.db.Model(&db.Reply{}).
		Where("post_node_id = ?", postID).
		Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := s.db.Preload("Author").Preload("ReplyTo").
		Where("post_node_id = ?", postID).
		Order("id asc").Limit(result.PerPage).Offset(offset).
		Find(&result.Replies).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// deriveReplyTitle 生成回复标题并裁剪到字段上限。
func deriveReplyTitle(parentTitle string) string {
	title := "Re:" + parentTitle
	runes := []rune(title)
	if len(runes) > 200 {
		return string(runes[:200])
	}
	return title
}
