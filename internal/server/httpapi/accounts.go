package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/blocksearch/internal/common"
	"github.com/dmitrijs2005/blocksearch/internal/server/services"
	"github.com/gin-gonic/gin"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func message(msg string) gin.H {
	return gin.H{"message": msg}
}

func (h *Handler) setSession(c *gin.Context, s *services.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, s.Token, maxAge, "/", "", h.cookie.Secure, true)
}

// Register answers POST /api/register with 201 and a session cookie.
func (h *Handler) Register(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body"))
		return
	}

	sess, err := h.accounts.Register(c.Request.Context(), in.Username, in.Password, in.Email)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorValidation):
		msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
		c.JSON(http.StatusBadRequest, message(msg))
		return
	case errors.Is(err, common.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, message("Username already exists"))
		return
	case errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, message("Email already registered"))
		return
	default:
		h.log(c).Error(c.Request.Context(), "register failed", "error", err)
		c.JSON(http.StatusInternalServerError, message("Failed to create user"))
		return
	}

	h.setSession(c, sess)
	c.JSON(http.StatusCreated, userResponse{ID: sess.User.ID, Username: sess.User.Username})
}

// Login answers POST /api/login.
func (h *Handler) Login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, message("Invalid request body"))
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, message("Invalid username or password"))
			return
		}
		h.log(c).Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, message("Failed to log in"))
		return
	}

	h.setSession(c, sess)
	c.JSON(http.StatusOK, userResponse{ID: sess.User.ID, Username: sess.User.Username})
}

// Logout clears the session cookie. Tokens are stateless, so this is all
// there is to it.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Status(http.StatusOK)
}

// CurrentUser answers GET /api/user.
func (h *Handler) CurrentUser(c *gin.Context) {
	u, err := h.accounts.Me(c.Request.Context(), c.GetInt64(common.UserIDKey))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		h.log(c).Error(c.Request.Context(), "current user failed", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, userResponse{ID: u.ID, Username: u.Username})
}
