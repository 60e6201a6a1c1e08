package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type toggleBookmarkRequest struct {
	UserID      *uint `json:"userId" binding:"required"`
	FlashcardID *uint `json:"flashcardId" binding:"required"`
}

// BookmarkStatus is the body of toggle and check responses.
type BookmarkStatus struct {
	IsBookmarked bool `json:"isBookmarked"`
}

type BookmarksController struct {
	store BookmarkStore
}

func NewBookmarksController(store BookmarkStore) *BookmarksController {
	return &BookmarksController{store: store}
}

// ToggleBookmark handles POST /api/bookmarks/toggle. Each call flips the state.
func (bc *BookmarksController) ToggleBookmark(c *gin.Context) {
	var req toggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid userId or flashcardId")
		return
	}
	if !authorizeUser(c, *req.UserID) {
		return
	}

	bookmarked, err := bc.store.ToggleBookmark(*req.UserID, *req.FlashcardID)
	if err != nil {
		respondInternalError(c, err, "toggle bookmark")
		return
	}
	c.JSON(http.StatusOK, BookmarkStatus{IsBookmarked: bookmarked})
}

// ListBookmarks handles GET /api/bookmarks/:userId.
func (bc *BookmarksController) ListBookmarks(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if !authorizeUser(c, userID) {
		return
	}

	cards, err := bc.store.GetUserBookmarks(userID)
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, cards)
}

// IsBookmarked handles GET /api/bookmarks/:userId/:flashcardId.
func (bc *BookmarksController) IsBookmarked(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	flashcardID, ok := parseIDParam(c, "flashcardId")
	if !ok {
		return
	}
	if !authorizeUser(c, userID) {
		return
	}

	bookmarked, err := bc.store.IsBookmarked(userID, flashcardID)
	if err != nil {
		respondInternalError(c, err, "check bookmark")
		return
	}
	c.JSON(http.StatusOK, BookmarkStatus{IsBookmarked: bookmarked})
}
