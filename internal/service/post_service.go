package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/xuj/lcforum/internal/db"
	"github.com/xuj/lcforum/internal/markdown"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating or updating a post.
// Author 为当前登录用户，nil 表示游客。
type PostInput struct {
	Title            string
	Content          string
	GuestName        string
	GuestEmail       string
	NeedNotification bool
	Bygod            bool
	Author           *db.User
	NodeID           *uint
	IPAddr           string
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// baseInput 是帖子与回复共享的保存字段。
type baseInput struct {
	Title            string
	Content          string
	GuestName        string
	GuestEmail       string
	NeedNotification bool
	Bygod            bool
	Author           *db.User
	IPAddr           string
}

// fillPostBase 统一执行校验、Markdown 渲染和归属解析。
// ContentMD 只会由这里写入，保证它始终是 Content 的最新渲染结果。
func fillPostBase(base *db.PostBase, in baseInput) error {
	verr := newValidationError()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.Fields["title"] = "标题不能为空"
	} else if utf8.RuneCountInString(title) > 200 {
		verr.Fields["title"] = "标题的长度请控制在200个字符内"
	}

	guestName := strings.TrimSpace(in.GuestName)
	if guestName == "" {
		guestName = "Guest"
	}
	if !guestNamePattern.MatchString(guestName) {
		verr.Fields["guest_name"] = "名字中包含不允许的字符"
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	rendered, err := markdown.Render(in.Content)
	if err != nil {
		return err
	}

	base.Title = title
	base.Content = in.Content
	base.ContentMD = rendered
	base.GuestName = guestName
	base.GuestEmail = normalizeGuestEmail(in.GuestEmail)
	base.NeedNotification = in.NeedNotification

	ipAddr := strings.TrimSpace(in.IPAddr)
	if ipAddr == "" {
		ipAddr = "0.0.0.0"
	}
	base.IPAddr = ipAddr

	if in.Author != nil {
		authorID := in.Author.ID
		base.AuthorID = &authorID
		base.Author = in.Author
	} else {
		base.AuthorID = nil
		base.Author = nil
	}

	// 非管理员提交的 bygod 一律被覆盖为 false
	base.Bygod = in.Bygod && in.Author != nil && in.Author.IsSuperuser

	return nil
}

// Create persists a new post after validation and markdown rendering.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	var post db.Post
	if err := fillPostBase(&post.PostBase, baseInput{
		Title:            input.Title,
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

	post.NodeID = input.NodeID
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update applies updates to an existing post, re-rendering its content.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := fillPostBase(&existing.PostBase, baseInput{
		Title:            input.Title,
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

	existing.NodeID = input.NodeID
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Get fetches a post by id with its author and node preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Author").Preload("Node").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Latest returns the n most recent posts, newest first.
func (s *PostService) Latest(n int) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Author").Preload("Node").
		Order("id desc").Limit(n).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// LatestBygod 返回最近的 n 篇官方（管理员归档）帖子。
func (s *PostService) LatestBygod(n int) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Author").Where("bygod = ?", true).
		Order("id desc").Limit(n).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByOfficial returns all posts filtered by the bygod flag, newest first.
func (s *PostService) ListByOfficial(bygod bool) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("bygod = ?", bygod).Order("id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// List provides paginated posts, newest first.
func (s *PostService) List(page, perPage int) (*PostListResult, error) {
	return s.list(func(q *gorm.DB) *gorm.DB { return q }, page, perPage)
}

// ListByNode provides paginated posts belonging to one node.
func (s *PostService) ListByNode(nodeID uint, page, perPage int) (*PostListResult, error) {
	return s.list(func(q *gorm.DB) *gorm.DB {
		return q.Where("node_id = ?", nodeID)
	}, page, perPage)
}

func (s *PostService) list(scope func(*gorm.DB) *gorm.DB, page, perPage int) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 25),
	}

	if err := scope(s.db.Model(&db.Post{})).Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := scope(s.db.Preload("Author").Preload("Node")).
		Order("id desc").Limit(result.PerPage).Offset(offset).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	return result, nil
}
