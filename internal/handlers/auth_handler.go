package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"momo-insights/internal/services"
	"momo-insights/pkg"
	"momo-insights/pkg/utils"
	"momo-insights/pkg/views"
)

type AuthHandler struct {
	logger  *zap.Logger
	service services.AuthService
}

func NewAuthHandler(logger *zap.Logger, svc services.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, service: svc}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/register", h.GetRegister)
	r.POST("/register", h.PostRegister)
	r.GET("/login", h.GetLogin)
	r.POST("/login", h.PostLogin)
	r.GET("/logout", h.Logout)
}

func (h *AuthHandler) GetRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"flashes": takeFlashes(c),
	})
}

func (h *AuthHandler) PostRegister(c *gin.Context) {
	traceID, _ := utils.GetTraceID(c)

	var req views.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"error":    "Username must be 3-32 characters and password at least 8.",
			"username": c.PostForm("username"),
		})
		return
	}

	if err := h.service.Register(c.Request.Context(), traceID, req.Username, req.Password); err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.HTML(resp.Status, "register.html", gin.H{
			"error":    resp.Message,
			"username": req.Username,
		})
		return
	}

	setFlash(c, "success", "Registration successful! Please log in.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) GetLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"flashes": takeFlashes(c),
	})
}

func (h *AuthHandler) PostLogin(c *gin.Context) {
	traceID, _ := utils.GetTraceID(c)

	var req views.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"error": "Username and password are required.",
		})
		return
	}

	user, err := h.service.Login(c.Request.Context(), traceID, req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		var appErr pkg.AppError
		if errors.As(err, &appErr) {
			status = appErr.Code.Status
		}
		c.HTML(status, "login.html", gin.H{
			"error":    pkg.UserMessage(err),
			"username": req.Username,
		})
		return
	}

	sess := sessions.Default(c)
	sess.Set(pkg.SessionUserId, user.ID.String())
	sess.Set(pkg.SessionUsername, user.Username)
	if err = sess.Save(); err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.HTML(resp.Status, "login.html", gin.H{"error": resp.Message})
		return
	}

	setFlash(c, "success", "Logged in successfully!")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	setFlash(c, "info", "You have been logged out.")
	c.Redirect(http.StatusSeeOther, "/login")
}
