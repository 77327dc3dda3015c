package users

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/m-marika/userbase-backend/internal/auth"
	"github.com/m-marika/userbase-backend/internal/store"
)

// Repo is the slice of the store the user handlers need.
type Repo interface {
	CreateUser(ctx context.Context, user *store.User) error
	GetUser(ctx context.Context, id uint) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]store.User, error)
	SaveUser(ctx context.Context, user *store.User) error
	DeleteUser(ctx context.Context, id uint) error
}

type Handler struct {
	auth *auth.Service
	repo Repo
}

func NewHandler(a *auth.Service, r Repo) *Handler {
	return &Handler{auth: a, repo: r}
}

// Login godoc
// @Summary Obtain an access token
// @Description Authenticates with email and password (OAuth2 password form) and returns a bearer token.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param username formData string true "User email"
// @Param password formData string true "Password"
// @Success 200 {object} users.TokenResponse
// @Failure 400 {object} users.ErrorResponse
// @Failure 401 {object} users.ErrorResponse
// @Router /token [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	token, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			writeError(c, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// CreateUser godoc
// @Summary Register a new user
// @Description Creates a user account with a bcrypt-hashed password.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body users.CreateUserRequest true "User payload"
// @Success 201 {object} users.UserResponse
// @Failure 400 {object} users.ErrorResponse
// @Failure 500 {object} users.ErrorResponse
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user := &store.User{
		Email:          req.Email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(c, http.StatusBadRequest, "email already registered")
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// ListUsers godoc
// @Summary List users
// @Description Returns users ordered by id with skip/limit pagination.
// @Tags Users
// @Produce json
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records to return" default(10)
// @Success 200 {array} users.UserResponse
// @Failure 500 {object} users.ErrorResponse
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 10)
	list, err := h.repo.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} users.ErrorResponse
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateUser godoc
// @Summary Update a user
// @Description Partially updates email, password or active flag. Users may only update themselves.
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body users.UpdateUserRequest true "Fields to update"
// @Success 200 {object} users.UserResponse
// @Failure 400 {object} users.ErrorResponse
// @Failure 401 {object} users.ErrorResponse
// @Failure 403 {object} users.ErrorResponse
// @Failure 404 {object} users.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	current, ok := auth.CurrentUser(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	if current.ID != id {
		writeError(c, http.StatusForbidden, "you do not have permission to update this user")
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if req.Email != nil {
		user.Email = store.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "failed to hash password")
			return
		}
		user.HashedPassword = hashed
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := h.repo.SaveUser(c.Request.Context(), user); err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Deletes a user account. Users may only delete themselves.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} users.ErrorResponse
// @Failure 403 {object} users.ErrorResponse
// @Failure 404 {object} users.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	current, ok := auth.CurrentUser(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	if current.ID != id {
		writeError(c, http.StatusForbidden, "you do not have permission to delete this user")
		return
	}
	user, err := h.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.repo.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg})
}

func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
