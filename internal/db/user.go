package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型
type User struct {
	gorm.Model
	Username    string `gorm:"unique;not null;size:150"`
	Email       string `gorm:"size:254"`
	Password    string `gorm:"not null"`
	IsSuperuser bool   `gorm:"default:false"`
}

// EnsureSuperRoot 存在性检查：若提供的用户名与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的管理员用户。
func EnsureSuperRoot(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{Username: trimmedUser, Password: string(hashed), IsSuperuser: true}).Error
	}

	return nil
}
