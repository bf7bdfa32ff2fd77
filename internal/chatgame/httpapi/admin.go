package httpapi

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/repository"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
)

const adminSubjectKey = "admin_subject"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// itemRequest: 관리자 항목 생성/수정 본문
type itemRequest struct {
	Title            string `json:"title" validate:"required"`
	Category         string `json:"category" validate:"required"`
	CharacterName    string `json:"character_name" validate:"required"`
	CharacterSetting string `json:"character_setting"`
	MaxTurns         int    `json:"max_turns" validate:"required,gt=0,lte=100"`
	WinCondition     string `json:"win_condition" validate:"required"`
	LoseCondition    string `json:"lose_condition"`
	Difficulty       string `json:"difficulty"`
	Notes            string `json:"notes"`
}

func itemRequestFrom(item model.CatalogItem) itemRequest {
	return itemRequest{
		Title:            item.Title,
		Category:         item.Category,
		CharacterName:    item.CharacterName,
		CharacterSetting: item.CharacterSetting,
		MaxTurns:         item.MaxTurns,
		WinCondition:     item.WinCondition,
		LoseCondition:    item.LoseCondition,
		Difficulty:       item.Difficulty,
		Notes:            item.Notes,
	}
}

func (r itemRequest) toModel() model.CatalogItem {
	return model.CatalogItem{
		Title:            strings.TrimSpace(r.Title),
		Category:         strings.TrimSpace(r.Category),
		CharacterName:    strings.TrimSpace(r.CharacterName),
		CharacterSetting: r.CharacterSetting,
		MaxTurns:         r.MaxTurns,
		WinCondition:     strings.TrimSpace(r.WinCondition),
		LoseCondition:    r.LoseCondition,
		Difficulty:       r.Difficulty,
		Notes:            r.Notes,
	}
}

type promptRequest struct {
	SystemPrompt   string   `json:"system_prompt" validate:"required"`
	WelcomeMessage string   `json:"welcome_message"`
	Model          string   `json:"model"`
	MaxTokens      int      `json:"max_tokens" validate:"gte=0,lte=8192"`
	Temperature    *float64 `json:"temperature" validate:"omitnil,gte=0,lte=2"`
}

type promptResponse struct {
	Config model.PromptConfig `json:"config"`
	Stored bool               `json:"stored"`
}

type resultsResponse struct {
	Recent []model.GameResult     `json:"recent"`
	Stats  repository.ResultStats `json:"stats"`
}

type debugResponse struct {
	DebugInfo
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	Uptime     string `json:"uptime"`
	Version    string `json:"version"`
	Generator  string `json:"generator"`
}

// requireAdmin: Bearer 토큰 검증 미들웨어
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.auth.Enabled() {
			h.fail(c, http.StatusForbidden, CodeAdminDisabled, h.msgs.Get(messages.AdminDisabled))
			return
		}
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			h.fail(c, http.StatusUnauthorized, CodeUnauthorized, h.msgs.Get(messages.AdminMissingHeader))
			return
		}
		subject, err := h.auth.Verify(strings.TrimSpace(token))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(adminSubjectKey, subject)
		c.Next()
	}
}

func (h *Handler) handleLogin(c *gin.Context) {
	if !h.auth.Enabled() {
		h.fail(c, http.StatusForbidden, CodeAdminDisabled, h.msgs.Get(messages.AdminDisabled))
		return
	}
	ip := c.ClientIP()
	if !h.limiter.Allow(ip) {
		h.logger.Warn("admin_login_throttled", "client_ip", ip)
		h.writeError(c, cgerr.RateLimitedError{Key: ip})
		return
	}

	var req loginRequest
	if err := h.readBody(c, &req, false); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(c, err)
		return
	}

	token, expiresAt, err := h.auth.Login(req.Username, req.Password)
	if errors.As(err, new(cgerr.AuthError)) {
		h.logger.Warn("admin_login_failed", "client_ip", ip, "username", req.Username)
		h.fail(c, http.StatusUnauthorized, CodeUnauthorized, h.msgs.Get(messages.AdminLoginFailed))
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("admin_login", "client_ip", ip, "username", req.Username)
	h.ok(c, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt}, h.msgs.Get(messages.AdminLoginSuccess))
}

func (h *Handler) handleListItems(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, items, "")
}

func (h *Handler) handleCreateItem(c *gin.Context) {
	var req itemRequest
	if err := h.readBody(c, &req, false); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(c, err)
		return
	}
	item, err := h.catalog.Create(c.Request.Context(), req.toModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusCreated, item, h.msgs.Get(messages.AdminItemCreated))
}

func (h *Handler) handleUpdateItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, CodeInvalidRequest, h.msgs.Get(messages.AdminMissingItemID))
		return
	}
	var patch map[string]any
	if err := h.readBody(c, &patch, false); err != nil {
		h.writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.catalog.Get(ctx, id)
	if err != nil {
		h.writeItemError(c, id, err)
		return
	}
	req := itemRequestFrom(existing)
	if err := decodePartial(patch, &req); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(c, err)
		return
	}

	item, err := h.catalog.Update(ctx, id, req.toModel())
	if err != nil {
		h.writeItemError(c, id, err)
		return
	}
	h.ok(c, http.StatusOK, item, h.msgs.Get(messages.AdminItemUpdated))
}

func (h *Handler) handleDeleteItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, CodeInvalidRequest, h.msgs.Get(messages.AdminMissingItemID))
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.writeItemError(c, id, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"id": id}, h.msgs.Get(messages.AdminItemDeleted, messageprovider.P("id", strconv.Itoa(id))))
}

func (h *Handler) handleGetPrompt(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, CodeInvalidRequest, h.msgs.Get(messages.AdminMissingItemID))
		return
	}
	cfg, stored, err := h.catalog.Prompt(c.Request.Context(), id)
	if err != nil {
		h.writeItemError(c, id, err)
		return
	}
	h.ok(c, http.StatusOK, promptResponse{Config: cfg, Stored: stored}, "")
}

func (h *Handler) handleSavePrompt(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, CodeInvalidRequest, h.msgs.Get(messages.AdminMissingItemID))
		return
	}
	var req promptRequest
	if err := h.readBody(c, &req, false); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(c, err)
		return
	}

	saved, err := h.catalog.SavePrompt(c.Request.Context(), model.PromptConfig{
		ItemID:         id,
		SystemPrompt:   req.SystemPrompt,
		WelcomeMessage: req.WelcomeMessage,
		Model:          strings.TrimSpace(req.Model),
		MaxTokens:      req.MaxTokens,
		Temperature:    req.Temperature,
	})
	if err != nil {
		h.writeItemError(c, id, err)
		return
	}
	h.ok(c, http.StatusOK, saved, h.msgs.Get(messages.AdminPromptSaved, messageprovider.P("id", strconv.Itoa(id))))
}

func (h *Handler) handleListSessions(c *gin.Context) {
	sessions, err := h.game.ListSessions(c.Request.Context(), cgconfig.DefaultAdminSessionListLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, sessions, "")
}

func (h *Handler) handleRemoveSession(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	err := h.game.RemoveSession(c.Request.Context(), id)
	if errors.As(err, new(cgerr.SessionNotFoundError)) {
		h.fail(c, http.StatusNotFound, CodeSessionNotFound, h.msgs.Get(messages.AdminSessionNotFound, messageprovider.P("id", id)))
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"session_id": id}, h.msgs.Get(messages.AdminSessionRemoved, messageprovider.P("id", id)))
}

func (h *Handler) handleResults(c *gin.Context) {
	limit := cgconfig.DefaultRecentResultsListLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= cgconfig.DefaultAdminSessionListLimit {
			limit = n
		}
	}
	ctx := c.Request.Context()
	recent, err := h.catalog.RecentResults(ctx, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	stats, err := h.catalog.ResultStats(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, resultsResponse{Recent: recent, Stats: stats}, "")
}

func (h *Handler) handleDebug(c *gin.Context) {
	h.ok(c, http.StatusOK, debugResponse{
		DebugInfo:  h.debugInfo,
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		Uptime:     health.Uptime().Round(time.Second).String(),
		Version:    health.Version(),
		Generator:  h.game.GeneratorName(),
	}, "")
}

// writeItemError: 관리자 경로의 항목 미존재는 관리자 문구로 응답한다.
func (h *Handler) writeItemError(c *gin.Context, id int, err error) {
	if errors.As(err, new(cgerr.CatalogItemNotFoundError)) {
		h.fail(c, http.StatusNotFound, CodeItemNotFound, h.msgs.Get(messages.AdminItemNotFound, messageprovider.P("id", strconv.Itoa(id))))
		return
	}
	h.writeError(c, err)
}
