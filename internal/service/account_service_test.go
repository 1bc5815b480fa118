package service

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_RegisterHashesPassword(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewAccountService(gdb)

	user, err := svc.Register("newbie", "newbie@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatalf("password must not be stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored hash should match the password: %v", err)
	}
	if user.IsSuperuser {
		t.Fatalf("registered users must not be superusers")
	}
}

func TestAccountService_RegisterValidates(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewAccountService(gdb)

	_, err := svc.Register("", "", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["username"] != "用户名不能为空" {
		t.Fatalf("unexpected username message: %q", verr.Fields["username"])
	}
	if verr.Fields["password"] != "密码不能为空" {
		t.Fatalf("unexpected password message: %q", verr.Fields["password"])
	}

	_, err = svc.Register("bad name!", "", "x")
	if !errors.As(err, &verr) || verr.Fields["username"] != "用户名中包含不允许的字符" {
		t.Fatalf("expected username pattern error, got %v", err)
	}

	_, err = svc.Register("someone", "broken-email", "x")
	if !errors.As(err, &verr) || verr.Fields["email"] == "" {
		t.Fatalf("expected email validation error, got %v", err)
	}

	// 邮箱留空是允许的
	if _, err := svc.Register("noemail", "", "x"); err != nil {
		t.Fatalf("empty email should be accepted: %v", err)
	}
}

func TestAccountService_RegisterRejectsDuplicateUsername(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewAccountService(gdb)

	if _, err := svc.Register("taken", "", "x"); err != nil {
		t.Fatalf("register first: %v", err)
	}

	_, err := svc.Register("taken", "", "y")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["username"] != "该用户名已经被注册" {
		t.Fatalf("expected duplicate username error, got %v", err)
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	gdb := setupForumTestDB(t)
	svc := NewAccountService(gdb)

	if _, err := svc.Register("loginuser", "", "correct-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate("loginuser", "correct-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "loginuser" {
		t.Fatalf("unexpected user %q", user.Username)
	}

	if _, err := svc.Authenticate("loginuser", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}
