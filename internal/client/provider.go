package client

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/flashcards/internal/entities"
	"github.com/mrlokans/flashcards/internal/localstore"
)

const (
	DefaultPageSize      = 6
	DefaultTestLength    = 10
	DefaultDeclaredTotal = 100
	RecentlyViewedLimit  = 6

	queryFlashcards = "flashcards"
	queryCustom     = "custom"
)

// ProgressStats is the learner summary shown on the dashboard.
type ProgressStats struct {
	Mastered   int
	InProgress int
	ToReview   int
	Total      int
	Percentage int
}

type FlashcardQuery struct {
	Category   string
	Difficulty string
	SortBy     string
	Page       int
	Limit      int
}

type CustomQuery struct {
	Category   string
	Difficulty string
}

type TestQuery struct {
	Category   string
	Difficulty string
	Limit      int
}

// CategoryCount is a category name with the number of cards in it.
type CategoryCount struct {
	Name  string
	Count int
}

type Option func(*Provider)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

func WithNotifier(n Notifier) Option {
	return func(p *Provider) { p.notifier = n }
}

// WithServerSync toggles write-through of bookmarks and progress to the server.
func WithServerSync(enabled bool) Option {
	return func(p *Provider) { p.serverSync = enabled }
}

func WithUserID(id uint) Option {
	return func(p *Provider) { p.userID = id }
}

// WithDeclaredTotal sets the card total that totalPages is computed from.
func WithDeclaredTotal(n int) Option {
	return func(p *Provider) { p.declaredTotal = n }
}

// WithServerTotals computes totalPages from the match count the server
// reports instead of the declared total.
func WithServerTotals(enabled bool) Option {
	return func(p *Provider) { p.serverTotals = enabled }
}

// Provider holds the client-side flashcard state.
type Provider struct {
	api           API
	local         *localstore.Local
	logger        *zap.Logger
	notifier      Notifier
	cache         *queryCache
	userID        uint
	serverSync    bool
	declaredTotal int
	serverTotals  bool

	mu               sync.RWMutex
	flashcards       []entities.Flashcard
	customFlashcards []entities.Flashcard
	bookmarks        []entities.Flashcard
	recentlyViewed   []entities.Flashcard
	bookmarkedIDs    []uint
	masteredIDs      []uint
	stats            ProgressStats
	currentPage      int
	totalPages       int

	issued  map[string]uint64
	applied map[string]uint64
}

func New(api API, local *localstore.Local, opts ...Option) *Provider {
	p := &Provider{
		api:           api,
		local:         local,
		logger:        zap.NewNop(),
		cache:         newQueryCache(),
		userID:        DemoUserID,
		serverSync:    true,
		declaredTotal: DefaultDeclaredTotal,
		currentPage:   1,
		totalPages:    1,
		issued:        make(map[string]uint64),
		applied:       make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = LogNotifier{Logger: p.logger}
	}
	p.stats = ProgressStats{Total: p.declaredTotal}
	return p
}

// Init hydrates state from local persistence, merges server state when
// syncing, loads the first page and computes statistics.
func (p *Provider) Init(ctx context.Context) {
	p.mu.Lock()
	p.flashcards = p.local.LoadFlashcards()
	p.customFlashcards = p.local.LoadCustomFlashcards()
	p.bookmarkedIDs = p.local.LoadIDs(localstore.KeyBookmarkedCards)
	p.masteredIDs = p.local.LoadIDs(localstore.KeyMasteredCards)
	p.recentlyViewed = p.local.LoadRecentlyViewed()
	p.mu.Unlock()

	if p.serverSync {
		p.mergeServerState(ctx)
	}

	p.FetchFlashcards(ctx, FlashcardQuery{Page: 1, Limit: DefaultPageSize})
	p.refreshStats(ctx)
}

func (p *Provider) mergeServerState(ctx context.Context) {
	bookmarks, err := p.api.ListBookmarks(ctx, p.userID)
	if err != nil {
		p.logger.Warn("failed to load server bookmarks", zap.Error(err))
	}
	progress, perr := p.api.ListProgress(ctx, p.userID)
	if perr != nil {
		p.logger.Warn("failed to load server progress", zap.Error(perr))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		p.bookmarks = bookmarks
		for _, card := range bookmarks {
			p.bookmarkedIDs = addID(p.bookmarkedIDs, card.ID)
		}
		p.persistIDs(localstore.KeyBookmarkedCards, p.bookmarkedIDs)
	}
	if perr == nil {
		for _, row := range progress {
			if row.Status == entities.StatusMastered {
				p.masteredIDs = addID(p.masteredIDs, row.FlashcardID)
			}
		}
		p.persistIDs(localstore.KeyMasteredCards, p.masteredIDs)
	}
}

// FetchFlashcards loads one page of cards, sorts it and makes it current.
// On failure it notifies and returns an empty slice.
func (p *Provider) FetchFlashcards(ctx context.Context, q FlashcardQuery) []entities.Flashcard {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}

	seq := p.nextSeq(queryFlashcards)
	page, err := p.api.ListFlashcards(ctx, FlashcardParams{
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	})
	if err != nil {
		p.logger.Warn("failed to fetch flashcards", zap.Error(err))
		p.notifier.Notify(errorToast("Failed to load flashcards. Please try again."))
		return []entities.Flashcard{}
	}

	sorted := SortFlashcards(page.Cards, q.SortBy, p.masteredSet())

	total := p.declaredTotal
	if p.serverTotals && page.Total >= 0 {
		total = page.Total
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.apply(queryFlashcards, seq) {
		p.logger.Debug("discarding stale flashcards response", zap.Uint64("seq", seq))
		return sorted
	}
	p.flashcards = sorted
	p.currentPage = q.Page
	p.totalPages = pageCount(total, q.Limit)
	if err := p.local.SaveFlashcards(sorted); err != nil {
		p.logger.Warn("failed to save offline flashcards", zap.Error(err))
	}
	return sorted
}

// FetchCustomFlashcards loads user-authored cards and makes them current.
func (p *Provider) FetchCustomFlashcards(ctx context.Context, q CustomQuery) []entities.Flashcard {
	custom := true
	seq := p.nextSeq(queryCustom)
	page, err := p.api.ListFlashcards(ctx, FlashcardParams{
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Custom:     &custom,
	})
	if err != nil {
		p.logger.Warn("failed to fetch custom flashcards", zap.Error(err))
		p.notifier.Notify(errorToast("Failed to load custom flashcards. Please try again."))
		return []entities.Flashcard{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.apply(queryCustom, seq) {
		p.logger.Debug("discarding stale custom flashcards response", zap.Uint64("seq", seq))
		return page.Cards
	}
	p.customFlashcards = page.Cards
	if err := p.local.SaveCustomFlashcards(page.Cards); err != nil {
		p.logger.Warn("failed to save offline custom flashcards", zap.Error(err))
	}
	return page.Cards
}

// FetchTestFlashcards loads cards for a test session without touching state.
func (p *Provider) FetchTestFlashcards(ctx context.Context, q TestQuery) []entities.Flashcard {
	if q.Limit < 1 {
		q.Limit = DefaultTestLength
	}
	page, err := p.api.ListFlashcards(ctx, FlashcardParams{
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Limit:      q.Limit,
	})
	if err != nil {
		p.logger.Warn("failed to fetch test flashcards", zap.Error(err))
		p.notifier.Notify(errorToast("Failed to load test flashcards. Please try again."))
		return []entities.Flashcard{}
	}
	return page.Cards
}

// CreateCustomFlashcard creates a card owned by the provider's user.
func (p *Provider) CreateCustomFlashcard(ctx context.Context, card NewFlashcard) (*entities.Flashcard, error) {
	owner := p.userID
	card.UserID = &owner
	card.IsCustom = true

	created, err := p.api.CreateFlashcard(ctx, card)
	if err != nil {
		p.logger.Warn("failed to create flashcard", zap.Error(err))
		p.notifier.Notify(errorToast("Failed to create flashcard. Please try again."))
		return nil, err
	}

	p.mu.Lock()
	p.customFlashcards = append([]entities.Flashcard{*created}, p.customFlashcards...)
	p.supersede(queryCustom)
	if err := p.local.SaveCustomFlashcards(p.customFlashcards); err != nil {
		p.logger.Warn("failed to save offline custom flashcards", zap.Error(err))
	}
	p.mu.Unlock()

	p.cache.invalidate(flashcardsPath)
	p.notifier.Notify(Toast{
		Title:       "Flashcard Created",
		Description: "Your custom flashcard has been created successfully.",
		Variant:     VariantDefault,
	})
	return created, nil
}

// DeleteFlashcard removes a card on the server and from the custom list.
func (p *Provider) DeleteFlashcard(ctx context.Context, id uint) error {
	if err := p.api.DeleteFlashcard(ctx, id); err != nil {
		p.logger.Warn("failed to delete flashcard", zap.Uint("id", id), zap.Error(err))
		p.notifier.Notify(errorToast("Failed to delete flashcard. Please try again."))
		return err
	}

	p.mu.Lock()
	p.customFlashcards = removeCard(p.customFlashcards, id)
	p.supersede(queryCustom)
	if err := p.local.SaveCustomFlashcards(p.customFlashcards); err != nil {
		p.logger.Warn("failed to save offline custom flashcards", zap.Error(err))
	}
	p.mu.Unlock()

	p.cache.invalidate(flashcardsPath)
	p.notifier.Notify(Toast{
		Title:       "Flashcard Deleted",
		Description: "The flashcard has been deleted.",
		Variant:     VariantDefault,
	})
	return nil
}

// ToggleBookmark flips the bookmark on id and returns the new state.
func (p *Provider) ToggleBookmark(ctx context.Context, id uint) bool {
	p.mu.Lock()
	bookmarked := !containsID(p.bookmarkedIDs, id)
	if bookmarked {
		p.bookmarkedIDs = addID(p.bookmarkedIDs, id)
		if card, ok := p.findCard(id); ok {
			p.bookmarks = append(p.bookmarks, card)
			p.pushRecentlyViewed(card)
		}
	} else {
		p.bookmarkedIDs = removeID(p.bookmarkedIDs, id)
		p.bookmarks = removeCard(p.bookmarks, id)
	}
	p.persistIDs(localstore.KeyBookmarkedCards, p.bookmarkedIDs)
	if err := p.local.SaveBookmarks(p.userID, p.bookmarkedIDs); err != nil {
		p.logger.Warn("failed to save bookmarks", zap.Error(err))
	}
	p.mu.Unlock()

	if p.serverSync {
		p.syncBookmark(ctx, id, bookmarked)
	}
	return bookmarked
}

// syncBookmark brings the server in line with the local state. The server
// endpoint is a toggle, so its current state is read first.
func (p *Provider) syncBookmark(ctx context.Context, id uint, want bool) {
	remote, err := p.api.IsBookmarked(ctx, p.userID, id)
	if err == nil && remote != want {
		remote, err = p.api.ToggleBookmark(ctx, p.userID, id)
	}
	if err != nil {
		p.logger.Warn("failed to sync bookmark", zap.Uint("flashcard_id", id), zap.Error(err))
		p.notifier.Notify(errorToast("Failed to sync bookmark with the server."))
		return
	}
	if remote != want {
		p.logger.Warn("server bookmark state diverged", zap.Uint("flashcard_id", id), zap.Bool("want", want))
	}
}

func (p *Provider) IsBookmarked(id uint) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return containsID(p.bookmarkedIDs, id)
}

// ToggleMastered flips mastery of id and returns the new state.
func (p *Provider) ToggleMastered(ctx context.Context, id uint) bool {
	p.mu.Lock()
	mastered := !containsID(p.masteredIDs, id)
	status := entities.StatusInProgress
	if mastered {
		status = entities.StatusMastered
		p.masteredIDs = addID(p.masteredIDs, id)
		if card, ok := p.findCard(id); ok {
			p.pushRecentlyViewed(card)
		}
	} else {
		p.masteredIDs = removeID(p.masteredIDs, id)
	}
	p.persistIDs(localstore.KeyMasteredCards, p.masteredIDs)
	if err := p.local.SaveProgress(p.userID, id, status); err != nil {
		p.logger.Warn("failed to save progress", zap.Error(err))
	}
	p.mu.Unlock()

	if p.serverSync {
		_, err := p.api.UpsertProgress(ctx, entities.UserProgress{
			UserID:      p.userID,
			FlashcardID: id,
			Status:      status,
		})
		if err != nil {
			p.logger.Warn("failed to sync progress", zap.Uint("flashcard_id", id), zap.Error(err))
			p.notifier.Notify(errorToast("Failed to sync progress with the server."))
		}
	}

	p.refreshStats(ctx)
	return mastered
}

func (p *Provider) IsMastered(id uint) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return containsID(p.masteredIDs, id)
}

// RecordProgress stores a study outcome for a card, as produced by a test
// session.
func (p *Provider) RecordProgress(ctx context.Context, id uint, status entities.ProgressStatus) {
	p.mu.Lock()
	if status == entities.StatusMastered {
		p.masteredIDs = addID(p.masteredIDs, id)
	} else {
		p.masteredIDs = removeID(p.masteredIDs, id)
	}
	p.persistIDs(localstore.KeyMasteredCards, p.masteredIDs)
	if err := p.local.SaveProgress(p.userID, id, status); err != nil {
		p.logger.Warn("failed to save progress", zap.Error(err))
	}
	p.mu.Unlock()

	if p.serverSync {
		_, err := p.api.UpsertProgress(ctx, entities.UserProgress{UserID: p.userID, FlashcardID: id, Status: status})
		if err != nil {
			p.logger.Warn("failed to sync progress", zap.Uint("flashcard_id", id), zap.Error(err))
			p.notifier.Notify(errorToast("Failed to sync progress with the server."))
		}
	}
}

// RecordView marks a card as viewed.
func (p *Provider) RecordView(card entities.Flashcard) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushRecentlyViewed(card)
}

// RefreshStats recomputes ProgressStats.
func (p *Provider) RefreshStats(ctx context.Context) ProgressStats {
	p.refreshStats(ctx)
	return p.ProgressStats()
}

func (p *Provider) refreshStats(ctx context.Context) {
	if p.serverSync {
		remote, err := p.api.ProgressStats(ctx, p.userID)
		if err == nil {
			stats := ProgressStats{
				Mastered:   int(remote.Mastered),
				InProgress: int(remote.InProgress),
				ToReview:   int(remote.ToReview),
				Total:      int(remote.Total),
			}
			stats.Percentage = percentage(stats.Mastered, stats.Total)
			p.mu.Lock()
			p.stats = stats
			p.mu.Unlock()
			return
		}
		p.logger.Warn("failed to load server stats, using local progress", zap.Error(err))
	}

	progress := p.local.LoadProgress(p.userID)

	p.mu.Lock()
	defer p.mu.Unlock()
	stats := ProgressStats{Mastered: len(p.masteredIDs), Total: p.declaredTotal}
	for id, entry := range progress {
		if containsID(p.masteredIDs, id) {
			continue
		}
		switch entry.Status {
		case entities.StatusInProgress:
			stats.InProgress++
		case entities.StatusToReview:
			stats.ToReview++
		}
	}
	stats.Percentage = percentage(stats.Mastered, stats.Total)
	p.stats = stats
}

// CategoryCounts returns every category with its card count. Counts are
// fetched concurrently and cached until the next create or delete.
func (p *Provider) CategoryCounts(ctx context.Context) []CategoryCount {
	names, err := p.categories(ctx)
	if err != nil {
		p.logger.Warn("failed to load categories", zap.Error(err))
		p.notifier.Notify(errorToast("Failed to load categories."))
		return []CategoryCount{}
	}

	counts := make([]CategoryCount, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			params := FlashcardParams{Category: name}
			key := params.Key()
			if v, ok := p.cache.get(key); ok {
				counts[i] = CategoryCount{Name: name, Count: v.(int)}
				return nil
			}
			page, err := p.api.ListFlashcards(gctx, params)
			if err != nil {
				return err
			}
			n := page.Total
			if n < 0 {
				n = len(page.Cards)
			}
			p.cache.set(key, n)
			counts[i] = CategoryCount{Name: name, Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Warn("failed to count flashcards per category", zap.Error(err))
		p.notifier.Notify(errorToast("Failed to load categories."))
		return []CategoryCount{}
	}
	return counts
}

func (p *Provider) categories(ctx context.Context) ([]string, error) {
	if v, ok := p.cache.get(categoriesPath); ok {
		return v.([]string), nil
	}
	names, err := p.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	p.cache.set(categoriesPath, names)
	return names, nil
}

func (p *Provider) Flashcards() []entities.Flashcard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneCards(p.flashcards)
}

func (p *Provider) CustomFlashcards() []entities.Flashcard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneCards(p.customFlashcards)
}

func (p *Provider) Bookmarks() []entities.Flashcard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneCards(p.bookmarks)
}

func (p *Provider) RecentlyViewed() []entities.Flashcard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneCards(p.recentlyViewed)
}

func (p *Provider) ProgressStats() ProgressStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

func (p *Provider) CurrentPage() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentPage
}

func (p *Provider) TotalPages() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalPages
}

func (p *Provider) SetCurrentPage(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentPage = n
}

func (p *Provider) nextSeq(query string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued[query]++
	return p.issued[query]
}

// apply records seq as applied unless a newer response already was.
// Callers hold mu.
func (p *Provider) apply(query string, seq uint64) bool {
	if seq <= p.applied[query] {
		return false
	}
	p.applied[query] = seq
	return true
}

// supersede makes every response to an already issued request stale.
// Callers hold mu.
func (p *Provider) supersede(query string) {
	p.applied[query] = p.issued[query]
}

func (p *Provider) masteredSet() map[uint]bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set := make(map[uint]bool, len(p.masteredIDs))
	for _, id := range p.masteredIDs {
		set[id] = true
	}
	return set
}

// Callers hold mu.
func (p *Provider) findCard(id uint) (entities.Flashcard, bool) {
	for _, list := range [][]entities.Flashcard{p.flashcards, p.customFlashcards} {
		for _, card := range list {
			if card.ID == id {
				return card, true
			}
		}
	}
	return entities.Flashcard{}, false
}

// Callers hold mu.
func (p *Provider) pushRecentlyViewed(card entities.Flashcard) {
	viewed := make([]entities.Flashcard, 0, RecentlyViewedLimit)
	viewed = append(viewed, card)
	for _, c := range p.recentlyViewed {
		if c.ID == card.ID {
			continue
		}
		if len(viewed) == RecentlyViewedLimit {
			break
		}
		viewed = append(viewed, c)
	}
	p.recentlyViewed = viewed
	if err := p.local.SaveRecentlyViewed(viewed); err != nil {
		p.logger.Warn("failed to save recently viewed", zap.Error(err))
	}
}

func (p *Provider) persistIDs(key string, ids []uint) {
	if err := p.local.SaveIDs(key, ids); err != nil {
		p.logger.Warn("failed to save ids", zap.String("key", key), zap.Error(err))
	}
}

func pageCount(total, limit int) int {
	if total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func percentage(mastered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(mastered) / float64(total) * 100))
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func addID(ids []uint, id uint) []uint {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func removeCard(cards []entities.Flashcard, id uint) []entities.Flashcard {
	out := make([]entities.Flashcard, 0, len(cards))
	for _, c := range cards {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func cloneCards(cards []entities.Flashcard) []entities.Flashcard {
	out := make([]entities.Flashcard, len(cards))
	copy(out, cards)
	return out
}
