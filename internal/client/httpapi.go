package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/flashcards/internal/entities"
)

const (
	categoriesPath = "/api/categories"
	flashcardsPath = "/api/flashcards"
	totalHeader    = "X-Total-Count"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// HTTPAPI talks to the REST server.
type HTTPAPI struct {
	baseURL string
	client  *http.Client
}

type HTTPOption func(*HTTPAPI)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(a *HTTPAPI) { a.client = c }
}

// WithTimeout sets the per-request timeout. It works on a copy, so a client
// passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) HTTPOption {
	return func(a *HTTPAPI) {
		c := *a.client
		c.Timeout = d
		a.client = &c
	}
}

// NewHTTPAPI creates a client for the server at baseURL. The default
// client keeps cookies so a Login session carries over to later calls.
func NewHTTPAPI(baseURL string, opts ...HTTPOption) *HTTPAPI {
	jar, _ := cookiejar.New(nil)
	a := &HTTPAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	target := a.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.Header, decodeAPIError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}
	return resp.Header, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &payload) == nil && len(payload.Error) > 0 {
		var msg string
		if json.Unmarshal(payload.Error, &msg) == nil {
			apiErr.Message = msg
		} else {
			apiErr.Message = string(payload.Error)
		}
	}
	return apiErr
}

func (a *HTTPAPI) ListCategories(ctx context.Context) ([]string, error) {
	var names []string
	_, err := a.do(ctx, http.MethodGet, categoriesPath, nil, nil, &names)
	return names, err
}

func (a *HTTPAPI) ListFlashcards(ctx context.Context, params FlashcardParams) (Page, error) {
	var cards []entities.Flashcard
	header, err := a.do(ctx, http.MethodGet, flashcardsPath, params.Values(), nil, &cards)
	if err != nil {
		return Page{}, err
	}
	if cards == nil {
		cards = []entities.Flashcard{}
	}

	total := -1
	if raw := header.Get(totalHeader); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			total = n
		}
	}
	return Page{Cards: cards, Total: total}, nil
}

func (a *HTTPAPI) CreateFlashcard(ctx context.Context, card NewFlashcard) (*entities.Flashcard, error) {
	var created entities.Flashcard
	if _, err := a.do(ctx, http.MethodPost, flashcardsPath, nil, card, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *HTTPAPI) DeleteFlashcard(ctx context.Context, id uint) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", flashcardsPath, id), nil, nil, nil)
	return err
}

type bookmarkStatus struct {
	IsBookmarked bool `json:"isBookmarked"`
}

func (a *HTTPAPI) ToggleBookmark(ctx context.Context, userID, flashcardID uint) (bool, error) {
	body := map[string]uint{"userId": userID, "flashcardId": flashcardID}
	var status bookmarkStatus
	_, err := a.do(ctx, http.MethodPost, "/api/bookmarks/toggle", nil, body, &status)
	return status.IsBookmarked, err
}

func (a *HTTPAPI) IsBookmarked(ctx context.Context, userID, flashcardID uint) (bool, error) {
	var status bookmarkStatus
	_, err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookmarks/%d/%d", userID, flashcardID), nil, nil, &status)
	return status.IsBookmarked, err
}

func (a *HTTPAPI) ListBookmarks(ctx context.Context, userID uint) ([]entities.Flashcard, error) {
	var cards []entities.Flashcard
	_, err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookmarks/%d", userID), nil, nil, &cards)
	return cards, err
}

func (a *HTTPAPI) UpsertProgress(ctx context.Context, progress entities.UserProgress) (*entities.UserProgress, error) {
	body := map[string]any{
		"userId":      progress.UserID,
		"flashcardId": progress.FlashcardID,
		"status":      progress.Status,
	}
	if progress.LastReviewed != "" {
		body["lastReviewed"] = progress.LastReviewed
	}

	var saved entities.UserProgress
	if _, err := a.do(ctx, http.MethodPost, "/api/progress", nil, body, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (a *HTTPAPI) ListProgress(ctx context.Context, userID uint) ([]entities.UserProgress, error) {
	var rows []entities.UserProgress
	_, err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/progress/%d", userID), nil, nil, &rows)
	return rows, err
}

func (a *HTTPAPI) ProgressStats(ctx context.Context, userID uint) (*entities.ProgressStats, error) {
	var stats entities.ProgressStats
	if _, err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/progress/%d/stats", userID), nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Login starts a server session. Only needed when the server runs with
// local authentication.
func (a *HTTPAPI) Login(ctx context.Context, username, password string) (*entities.User, error) {
	body := map[string]string{"username": username, "password": password}
	var user entities.User
	if _, err := a.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
