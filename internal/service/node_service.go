package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/xuj/lcforum/internal/db"
	"gorm.io/gorm"
)

var ErrNodeNotFound = errors.New("node tag not found")

// NodeService wraps node tag (category) database operations.
type NodeService struct {
	db *gorm.DB
}

// NodeInput represents fields accepted when creating a node tag.
type NodeInput struct {
	Name        string
	Description string
	Slug        string
}

// NewNodeService creates a NodeService instance.
func NewNodeService(gdb *gorm.DB) *NodeService {
	return &NodeService{db: gdb}
}

// Create 校验名称与代号的非空、长度和唯一性后新建节点。
func (s *NodeService) Create(input NodeInput) (*db.NodeTag, error) {
	verr := newValidationError()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		verr.Fields["name"] = "节点的名称不能为空"
	} else if utf8.RuneCountInString(name) > 50 {
		verr.Fields["name"] = "节点名称的长度不能超过50个字符"
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		verr.Fields["slug"] = "节点代号不能为空"
	} else if utf8.RuneCountInString(slug) > 30 {
		verr.Fields["slug"] = "节点代号的长度不能超过30个字符"
	}

	if len(verr.Fields) == 0 {
		var count int64
		if err := s.db.Model(&db.NodeTag{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			verr.Fields["name"] = "同名节点已经存在"
		}

		if err := s.db.Model(&db.NodeTag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			verr.Fields["slug"] = "同代号节点已经存在"
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	node := db.NodeTag{Name: name, Description: strings.TrimSpace(input.Description), Slug: slug}
	if err := s.db.Create(&node).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

// GetBySlug fetches a node tag by its URL slug.
func (s *NodeService) GetBySlug(slug string) (*db.NodeTag, error) {
	var node db.NodeTag
	if err := s.db.Where("slug = ?", slug).First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}
	return &node, nil
}

// List returns all node tags.
func (s *NodeService) List() ([]db.NodeTag, error) {
	var nodes []db.NodeTag
	if err := s.db.Order("id asc").Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

// Delete 删除节点，所属帖子的 node_id 被置空而不是级联删除。
func (s *NodeService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("node_id = ?", id).
			Update("node_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&db.NodeTag{}, id).Error
	})
}
