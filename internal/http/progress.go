package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/flashcards/internal/entities"
)

type progressRequest struct {
	UserID       uint                    `json:"userId" binding:"required"`
	FlashcardID  uint                    `json:"flashcardId" binding:"required"`
	Status       entities.ProgressStatus `json:"status" binding:"required,oneof=mastered inProgress toReview"`
	LastReviewed string                  `json:"lastReviewed" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type ProgressController struct {
	store ProgressStore
}

func NewProgressController(store ProgressStore) *ProgressController {
	return &ProgressController{store: store}
}

// UpsertProgress handles POST /api/progress. An existing (userId, flashcardId)
// row is updated in place.
func (pc *ProgressController) UpsertProgress(c *gin.Context) {
	var req progressRequest
	if !bindJSON(c, &req) {
		return
	}
	if !authorizeUser(c, req.UserID) {
		return
	}

	lastReviewed := req.LastReviewed
	if lastReviewed == "" {
		lastReviewed = time.Now().UTC().Format(time.RFC3339)
	}

	progress, err := pc.store.UpsertUserProgress(&entities.UserProgress{
		UserID:       req.UserID,
		FlashcardID:  req.FlashcardID,
		Status:       req.Status,
		LastReviewed: lastReviewed,
	})
	if err != nil {
		respondInternalError(c, err, "upsert progress")
		return
	}
	respondCreated(c, progress)
}

// GetUserProgress handles GET /api/progress/:userId?flashcardId=.
func (pc *ProgressController) GetUserProgress(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	flashcardID, ok := parseOptionalQueryUint(c, "flashcardId")
	if !ok {
		return
	}
	if !authorizeUser(c, userID) {
		return
	}

	progress, err := pc.store.GetUserProgress(userID, flashcardID)
	if err != nil {
		respondInternalError(c, err, "get user progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetProgressStats handles GET /api/progress/:userId/stats. Counts are raw.
func (pc *ProgressController) GetProgressStats(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if !authorizeUser(c, userID) {
		return
	}

	stats, err := pc.store.GetProgressStats(userID)
	if err != nil {
		respondInternalError(c, err, "get progress stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
