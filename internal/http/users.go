package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/flashcards/internal/auth"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

type UsersController struct {
	users UserService
}

func NewUsersController(users UserService) *UsersController {
	return &UsersController{users: users}
}

// Register handles POST /api/users.
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.users.Register(req.Username, req.Password)
	switch {
	case err == nil:
		respondCreated(c, user)
	case errors.Is(err, auth.ErrUserExists):
		respondError(c, http.StatusConflict, "username already taken")
	case errors.Is(err, auth.ErrUsernameRequired),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrUsernameInvalid),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, "register user")
	}
}

// GetUser handles GET /api/users/:id.
func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !authorizeUser(c, id) {
		return
	}

	user, err := uc.users.GetUserByID(id)
	if errors.Is(err, auth.ErrUserNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}
