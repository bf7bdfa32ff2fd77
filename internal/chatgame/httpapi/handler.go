// Package httpapi 는 게임/관리자 HTTP API(gin)를 제공한다.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/auth"
	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/service"
	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
)

// Handler: 게임/관리자 API 핸들러
type Handler struct {
	game     *service.GameService
	catalog  *service.CatalogService
	auth     *auth.Service
	limiter  *auth.LoginLimiter
	msgs     *messageprovider.Provider
	validate *validator.Validate
	logger   *slog.Logger

	maxBodyBytes int64
	debugInfo    DebugInfo
}

// DebugInfo: /api/admin/debug 에 노출할 런타임 설정 요약 (비밀값 제외)
type DebugInfo struct {
	SessionBackend string `json:"session_backend"`
	DatabaseDriver string `json:"database_driver"`
	GeneratorModel string `json:"generator_model"`
	AdminEnabled   bool   `json:"admin_enabled"`
	TelemetryOn    bool   `json:"telemetry_enabled"`
}

// NewHandler: Handler 를 생성한다.
func NewHandler(
	game *service.GameService,
	catalog *service.CatalogService,
	authService *auth.Service,
	limiter *auth.LoginLimiter,
	msgs *messageprovider.Provider,
	cfg *cgconfig.Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		game:         game,
		catalog:      catalog,
		auth:         authService,
		limiter:      limiter,
		msgs:         msgs,
		validate:     newValidator(),
		logger:       logger,
		maxBodyBytes: commonconfig.MaxRequestBodyBytes,
		debugInfo: DebugInfo{
			SessionBackend: cfg.Session.Backend,
			DatabaseDriver: cfg.Database.Driver,
			GeneratorModel: cfg.Generator.Model,
			AdminEnabled:   authService.Enabled(),
			TelemetryOn:    cfg.Telemetry.Enabled,
		},
	}
}

type startRequest struct {
	ItemID any `json:"item_id"`
}

type askRequest struct {
	GameID  string `json:"game_id"`
	Message string `json:"message"`
}

type endRequest struct {
	GameID string `json:"game_id"`
}

func (h *Handler) handleHealth(c *gin.Context) {
	resp := health.Get()
	resp.Message = h.msgs.Get(messages.CommonHealth)
	h.ok(c, http.StatusOK, resp, resp.Message)
}

func (h *Handler) handleGames(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	public := make([]model.PublicCatalogItem, 0, len(items))
	for _, item := range items {
		public = append(public, item.Public())
	}
	h.ok(c, http.StatusOK, public, "")
}

func (h *Handler) handleStart(c *gin.Context) {
	var req startRequest
	if err := h.readBody(c, &req, true); err != nil {
		h.writeError(c, err)
		return
	}
	itemID, err := parseItemID(req.ItemID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res, err := h.game.Start(c.Request.Context(), itemID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, res, "")
}

func (h *Handler) handleAsk(c *gin.Context) {
	var req askRequest
	if err := h.readBody(c, &req, true); err != nil {
		h.writeError(c, err)
		return
	}

	res, err := h.game.Ask(c.Request.Context(), req.GameID, req.Message)
	var invalid cgerr.InvalidRequestError
	if errors.As(err, &invalid) {
		message := h.msgs.Get(messages.AskMissingFields)
		if invalid.Reason == "too long" {
			message = h.msgs.Get(messages.AskMessageTooLong,
				messageprovider.P("max", strconv.Itoa(cgconfig.MaxPlayerMessageLength)))
		}
		h.fail(c, http.StatusBadRequest, CodeInvalidRequest, message)
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, res, "")
}

func (h *Handler) handleEnd(c *gin.Context) {
	var req endRequest
	if err := h.readBody(c, &req, true); err != nil {
		h.writeError(c, err)
		return
	}

	summary, err := h.game.End(c.Request.Context(), req.GameID)
	if errors.As(err, new(cgerr.InvalidRequestError)) {
		h.fail(c, http.StatusBadRequest, CodeInvalidRequest, h.msgs.Get(messages.EndMissingGameID))
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.ok(c, http.StatusOK, summary, summary.Message)
}
