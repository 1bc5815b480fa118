package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Attachment 定义了上传附件模型。图片元信息在保存时探测得到，
// 非图片文件保持 IsImage=false 和零尺寸。
type Attachment struct {
	gorm.Model
	FileName    string `gorm:"size:255;not null"`
	FilePath    string `gorm:"size:255;not null"`
	IsImage     bool   `gorm:"default:false"`
	ImageFormat string `gorm:"size:100"`
	Width       int    `gorm:"default:0"`
	Height      int    `gorm:"default:0"`
	UserID      *uint
	User        *User  `gorm:"constraint:OnDelete:SET NULL;"`
	Remark      string `gorm:"size:200"`
}

// AbsoluteURL 返回附件详情页路径
func (a *Attachment) AbsoluteURL() string {
	return fmt.Sprintf("/attachment/%d/", a.ID)
}
