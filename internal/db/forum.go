package db

import (
	"fmt"
	"html/template"

	"gorm.io/gorm"
)

// NodeTag 定义了论坛节点（讨论分类）模型
type NodeTag struct {
	gorm.Model
	Name        string `gorm:"unique;not null;size:50"`
	Description string
	Slug        string `gorm:"unique;not null;size:30"`
}

// AbsoluteURL 返回节点详情页路径
func (n *NodeTag) AbsoluteURL() string {
	return fmt.Sprintf("/forum/node/%s/", n.Slug)
}

// PostBase 是帖子与回复共享的字段集合。
// Content 保存原始 Markdown，ContentMD 为保存时渲染出的 HTML，两者不允许手工分叉。
type PostBase struct {
	gorm.Model
	Title            string `gorm:"size:200;not null"`
	Content          string
	ContentMD        string
	AuthorID         *uint
	Author           *User  `gorm:"constraint:OnDelete:SET NULL;"`
	Bygod            bool   `gorm:"default:false"`
	GuestName        string `gorm:"size:30;default:Guest"`
	GuestEmail       string `gorm:"size:254"`
	IPAddr           string `gorm:"size:45;default:0.0.0.0"`
	NeedNotification bool
}

// AuthorDisplay 返回显示与通知寻址统一使用的 (称呼, 邮箱)。
// 有登录作者时取账号信息，否则取游客填写的信息。
func (p *PostBase) AuthorDisplay() (string, string) {
	if p.Author != nil {
		return p.Author.Username, p.Author.Email
	}
	return p.GuestName, p.GuestEmail
}

// DisplayName 返回作者或游客的展示称呼，模板直接使用。
func (p *PostBase) DisplayName() string {
	name, _ := p.AuthorDisplay()
	return name
}

// DisplayEmail 返回作者或游客的联系邮箱，展示时由模板做 [at] 替换。
func (p *PostBase) DisplayEmail() string {
	_, email := p.AuthorDisplay()
	return email
}

// HTMLContent 把渲染好的 ContentMD 以安全 HTML 的形式交给模板。
// ContentMD 在保存时已经过净化，这里只做类型转换。
func (p *PostBase) HTMLContent() template.HTML {
	return template.HTML(p.ContentMD)
}

// Post 定义了主题帖模型，节点被删除时 NodeID 置空而非级联删除。
type Post struct {
	PostBase
	NodeID *uint
	Node   *NodeTag `gorm:"constraint:OnDelete:SET NULL;"`
}

// AbsoluteURL 返回帖子详情页路径
func (p *Post) AbsoluteURL() string {
	return fmt.Sprintf("/forum/thread/%d/", p.ID)
}

// Reply 定义了回复模型。PostNode 指向所属帖子，ReplyTo 指向被引用的回复，
// 两者都允许为空（父记录删除后置空）。
type Reply struct {
	PostBase
	PostNodeID *uint
	PostNode   *Post `gorm:"constraint:OnDelete:SET NULL;"`
	ReplyToID  *uint
	ReplyTo    *Reply `gorm:"foreignKey:ReplyToID;constraint:OnDelete:SET NULL;"`
}

// AbsoluteURL 返回所属帖子的详情页路径；帖子被删除时退回论坛首页。
func (r *Reply) AbsoluteURL() string {
	if r.PostNodeID != nil {
		return fmt.Sprintf("/forum/thread/%d/", *r.PostNodeID)
	}
	return "/"
}
