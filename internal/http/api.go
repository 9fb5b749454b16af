package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"auth-server/internal/domain"
	"auth-server/internal/repository"
	"auth-server/internal/service"
	"auth-server/internal/token"
)

// Handler wires HTTP routes to the auth service.
type Handler struct {
	auth        service.AuthService
	accounts    repository.AccountRepository
	tokens      *token.Codec
	frontendURL string
}

func NewHandler(auth service.AuthService, accounts repository.AccountRepository, tokens *token.Codec, frontendURL string) *Handler {
	return &Handler{
		auth:        auth,
		accounts:    accounts,
		tokens:      tokens,
		frontendURL: frontendURL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.frontendURL))

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/auth/verify", h.verifyToken)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.GET("/", AuthRequired(h.tokens, h.accounts), h.welcome)
}

type registerRequest struct {
	Email          string `json:"email" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	RecaptchaToken string `json:"recaptchaToken" binding:"required"`
}

type loginRequest struct {
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	RecaptchaToken string `json:"recaptchaToken" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		CaptchaToken: req.RecaptchaToken,
	})
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:        req.Email,
		Password:     req.Password,
		CaptchaToken: req.RecaptchaToken,
	})
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
	})
}

// verifyToken reports cryptographic validity only; it deliberately skips
// the directory lookup that AuthRequired performs.
func (h *Handler) verifyToken(c *gin.Context) {
	raw, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "No token provided"})
		return
	}

	claims, err := h.tokens.Decode(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user": claims})
}

func (h *Handler) welcome(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome",
		"user":    accountToResponse(identity),
	})
}

// writeAuthError converts the service error taxonomy into the response
// contract: captcha rejections are 403, everything else 400.
func (h *Handler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaptchaRejected):
		c.JSON(http.StatusForbidden, gin.H{"error": "Captcha verification failed"})
	case errors.Is(err, repository.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
	case errors.Is(err, repository.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
	case errors.Is(err, service.ErrEmailNotRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or not registered"})
	case errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

type AccountResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

func accountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Username:  account.Username,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}
