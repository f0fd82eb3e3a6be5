package api

import (
	"net/http"

	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/types"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/signup/", h.Signup)
	router.POST("/login/", h.Login)
}

func userView(u *models.User) types.UserView {
	return types.UserView{ID: u.ID.String(), Username: u.Username, Email: u.Email}
}

// Signup creates an account and returns a token for it.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req types.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.AuthResponse{
		Message: "회원가입 성공!",
		User:    userView(user),
		Token:   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{
		Message: "로그인 성공",
		User:    userView(user),
		Token:   token,
	})
}
