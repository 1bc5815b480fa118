package service

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/xuj/lcforum/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AccountService 负责账号注册与口令校验。
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// Register 校验并创建新账号，口令以 bcrypt 哈希存储。
func (s *AccountService) Register(username, email, password string) (*db.User, error) {
	verr := newValidationError()

	username = strings.TrimSpace(username)
	if username == "" {
		verr.Fields["username"] = "用户名不能为空"
	} else if utf8.RuneCountInString(username) > 150 {
		verr.Fields["username"] = "用户名的长度不能超过150个字符"
	} else if !guestNamePattern.MatchString(username) {
		verr.Fields["username"] = "用户名中包含不允许的字符"
	}

	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Fields["email"] = "您输入了一个无效的邮件地址，请修改或留空"
		}
	}

	if password == "" {
		verr.Fields["password"] = "密码不能为空"
	}

	if len(verr.Fields) == 0 {
		var count int64
		if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			verr.Fields["username"] = "该用户名已经被注册"
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{Username: username, Email: email, Password: string(hashed)}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate 校验用户名和口令，失败统一返回 ErrInvalidCredentials。
func (s *AccountService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
