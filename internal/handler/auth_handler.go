package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/xuj/lcforum/internal/service"
)

// ShowRegister 渲染注册页面
func (a *API) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "reg.html", gin.H{
		"title":  "注册",
		"errors": gin.H{},
		"form":   gin.H{"username": "", "email": ""},
		"next":   c.DefaultQuery("next", "/"),
		"year":   time.Now().Year(),
	})
}

// Register 创建账号并在同一次响应内完成登录，随后重定向到 next 或首页。
func (a *API) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	next := c.DefaultPostForm("next", c.DefaultQuery("next", "/"))

	user, err := a.accounts.Register(username, email, password)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusBadRequest, "reg.html", gin.H{
				"title":  "注册",
				"errors": verr.Fields,
				"form":   gin.H{"username": username, "email": email},
				"next":   next,
				"year":   time.Now().Year(),
			})
			return
		}

		a.renderServerError(c, "")
		return
	}

	if err := loginSession(c, user); err != nil {
		a.renderServerError(c, "")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// ShowLogin 渲染登录页面
func (a *API) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "登录",
		"form":  gin.H{"username": ""},
		"next":  c.DefaultQuery("next", "/"),
		"year":  time.Now().Year(),
	})
}

// Login 校验用户名密码并写入会话
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := c.DefaultPostForm("next", "/")

	user, err := a.accounts.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"title": "登录",
			"error": "用户名或密码错误",
			"form":  gin.H{"username": username},
			"next":  next,
			"year":  time.Now().Year(),
		})
		return
	}

	if err := loginSession(c, user); err != nil {
		a.renderServerError(c, "")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout 清空会话后回到登录页
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/auth/login/")
}
