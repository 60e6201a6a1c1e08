package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/flashcards/internal/entities"
)

// TotalCountHeader carries the unpaginated match count of a list request.
const TotalCountHeader = "X-Total-Count"

type createFlashcardRequest struct {
	Question   string              `json:"question" binding:"required"`
	Answer     string              `json:"answer" binding:"required"`
	Category   string              `json:"category" binding:"required,category"`
	Difficulty entities.Difficulty `json:"difficulty" binding:"required,oneof=easy medium hard"`
	IsCustom   bool                `json:"isCustom"`
	UserID     *uint               `json:"userId"`
}

type updateFlashcardRequest struct {
	Question   *string              `json:"question" binding:"omitempty,min=1"`
	Answer     *string              `json:"answer" binding:"omitempty,min=1"`
	Category   *string              `json:"category" binding:"omitempty,category"`
	Difficulty *entities.Difficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	IsCustom   *bool                `json:"isCustom"`
	UserID     *uint                `json:"userId"`
}

type FlashcardsController struct {
	store   FlashcardStore
	cleanup CleanupEnqueuer
}

// NewFlashcardsController creates the flashcard CRUD controller. cleanup may be nil.
func NewFlashcardsController(store FlashcardStore, cleanup CleanupEnqueuer) *FlashcardsController {
	return &FlashcardsController{store: store, cleanup: cleanup}
}

// ListFlashcards handles GET /api/flashcards.
// Query: category, difficulty, custom, userId ("null" for unowned), limit, offset.
func (fc *FlashcardsController) ListFlashcards(c *gin.Context) {
	filter, ok := parseFlashcardFilter(c)
	if !ok {
		return
	}

	cards, err := fc.store.GetFlashcards(filter)
	if err != nil {
		respondInternalError(c, err, "list flashcards")
		return
	}

	countFilter := filter
	countFilter.Limit, countFilter.Offset = 0, 0
	total, err := fc.store.CountFlashcards(countFilter)
	if err != nil {
		respondInternalError(c, err, "count flashcards")
		return
	}

	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, cards)
}

func parseFlashcardFilter(c *gin.Context) (entities.FlashcardFilter, bool) {
	filter := entities.FlashcardFilter{
		Category: c.Query("category"),
	}

	if d := c.Query("difficulty"); d != "" {
		difficulty := entities.Difficulty(d)
		if difficulty.Rank() == 0 {
			respondBadRequest(c, "invalid difficulty")
			return filter, false
		}
		filter.Difficulty = difficulty
	}

	if custom, present := c.GetQuery("custom"); present {
		isCustom := custom == "true"
		filter.IsCustom = &isCustom
	}

	if c.Query("userId") == "null" {
		filter.NoOwner = true
	} else {
		userID, ok := parseOptionalQueryUint(c, "userId")
		if !ok {
			return filter, false
		}
		filter.UserID = userID
	}

	var ok bool
	if filter.Limit, ok = parseOptionalQueryInt(c, "limit"); !ok {
		return filter, false
	}
	if filter.Offset, ok = parseOptionalQueryInt(c, "offset"); !ok {
		return filter, false
	}
	return filter, true
}

// GetFlashcard handles GET /api/flashcards/:id.
func (fc *FlashcardsController) GetFlashcard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := fc.store.GetFlashcard(id)
	if errors.Is(err, entities.ErrNotFound) {
		respondNotFound(c, "flashcard")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get flashcard")
		return
	}
	c.JSON(http.StatusOK, card)
}

// CreateFlashcard handles POST /api/flashcards.
func (fc *FlashcardsController) CreateFlashcard(c *gin.Context) {
	var req createFlashcardRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UserID != nil && !authorizeUser(c, *req.UserID) {
		return
	}

	card := &entities.Flashcard{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		IsCustom:   req.IsCustom,
		UserID:     req.UserID,
	}
	if err := fc.store.CreateFlashcard(card); err != nil {
		respondInternalError(c, err, "create flashcard")
		return
	}
	respondCreated(c, card)
}

// UpdateFlashcard handles PUT /api/flashcards/:id. Only the fields present
// in the body are changed.
func (fc *FlashcardsController) UpdateFlashcard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateFlashcardRequest
	if !bindJSON(c, &req) {
		return
	}

	if !fc.authorizeOwner(c, id) {
		return
	}

	patch := entities.FlashcardPatch{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		IsCustom:   req.IsCustom,
		UserID:     req.UserID,
	}
	card, err := fc.store.UpdateFlashcard(id, patch)
	if errors.Is(err, entities.ErrNotFound) {
		respondNotFound(c, "flashcard")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update flashcard")
		return
	}
	c.JSON(http.StatusOK, card)
}

// DeleteFlashcard handles DELETE /api/flashcards/:id. Preloaded cards cannot
// be deleted.
func (fc *FlashcardsController) DeleteFlashcard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := fc.store.GetFlashcard(id)
	if errors.Is(err, entities.ErrNotFound) {
		respondNotFound(c, "flashcard")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get flashcard")
		return
	}
	if !card.IsCustom {
		respondForbidden(c, "only custom flashcards can be deleted")
		return
	}
	if card.UserID != nil && !authorizeUser(c, *card.UserID) {
		return
	}

	deleted, err := fc.store.DeleteFlashcard(id)
	if err != nil {
		respondInternalError(c, err, "delete flashcard")
		return
	}
	if !deleted {
		respondNotFound(c, "flashcard")
		return
	}

	if fc.cleanup != nil {
		if _, err := fc.cleanup.EnqueueOrphanCleanup("flashcard deleted"); err != nil {
			log.Printf("Failed to enqueue orphan cleanup after deleting flashcard %d: %v", id, err)
		}
	}
	respondNoContent(c)
}

// authorizeOwner checks that a session user only edits their own cards.
// Missing cards pass through so the store reports the 404.
func (fc *FlashcardsController) authorizeOwner(c *gin.Context, id uint) bool {
	card, err := fc.store.GetFlashcard(id)
	if errors.Is(err, entities.ErrNotFound) {
		return true
	}
	if err != nil {
		respondInternalError(c, err, "get flashcard")
		return false
	}
	if card.UserID == nil {
		return true
	}
	return authorizeUser(c, *card.UserID)
}
