package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/auth"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/messages"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/httputil"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
)

// 기계 판독용 에러 코드
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeItemNotFound    = "ITEM_NOT_FOUND"
	CodeCatalogEmpty    = "CATALOG_EMPTY"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeAdminDisabled   = "ADMIN_DISABLED"
	CodeLockBusy        = "LOCK_BUSY"
	CodeInternal        = "INTERNAL_ERROR"
)

func (h *Handler) ok(c *gin.Context, status int, data any, message string) {
	if err := httputil.WriteSuccess(c.Writer, status, data, message); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) fail(c *gin.Context, status int, code string, message string) {
	if err := httputil.WriteFailure(c.Writer, status, code, message); err != nil {
		_ = c.Error(err)
	}
	c.Abort()
}

// writeError: 도메인 에러를 상태 코드/메시지로 변환한다. 분류되지 않은 에러는 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	status, code, message := h.classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request_failed", "request_id", GetRequestID(c), "path", c.Request.URL.Path, "err", err)
	} else if !cgerr.IsExpectedUserBehavior(err) {
		h.logger.Warn("request_rejected", "request_id", GetRequestID(c), "path", c.Request.URL.Path, "err", err)
	}
	_ = c.Error(err)
	h.fail(c, status, code, message)
}

func (h *Handler) classify(err error) (int, string, string) {
	var (
		sessionNotFound cgerr.SessionNotFoundError
		itemNotFound    cgerr.CatalogItemNotFoundError
		catalogEmpty    cgerr.CatalogEmptyError
		invalid         cgerr.InvalidRequestError
		authErr         cgerr.AuthError
		limited         cgerr.RateLimitedError
		lockErr         cerrors.LockError
		malformed       cerrors.MalformedInputError
		validationErrs  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &sessionNotFound):
		return http.StatusNotFound, CodeSessionNotFound, h.msgs.Get(messages.AskSessionNotFound)
	case errors.As(err, &itemNotFound):
		return http.StatusNotFound, CodeItemNotFound,
			h.msgs.Get(messages.StartItemNotFound, messageprovider.P("id", strconv.Itoa(itemNotFound.ItemID)))
	case errors.As(err, &catalogEmpty):
		return http.StatusNotFound, CodeCatalogEmpty, h.msgs.Get(messages.StartCatalogEmpty)
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		return http.StatusBadRequest, CodeInvalidRequest,
			h.msgs.Get(messages.AdminMissingField, messageprovider.P("field", validationErrs[0].Field()))
	case errors.As(err, &invalid):
		return http.StatusBadRequest, CodeInvalidRequest,
			h.msgs.Get(messages.AdminMissingField, messageprovider.P("field", invalid.Field))
	case errors.As(err, &malformed):
		return http.StatusBadRequest, CodeInvalidJSON, h.msgs.Get(messages.CommonInvalidJSON)
	case errors.As(err, &authErr):
		if authErr.Expired {
			return http.StatusUnauthorized, CodeTokenExpired, h.msgs.Get(messages.AdminTokenExpired)
		}
		return http.StatusUnauthorized, CodeUnauthorized, h.msgs.Get(messages.AdminTokenInvalid)
	case errors.As(err, &limited):
		return http.StatusTooManyRequests, CodeRateLimited, h.msgs.Get(messages.AdminLoginThrottled)
	case errors.Is(err, auth.ErrDisabled):
		return http.StatusForbidden, CodeAdminDisabled, h.msgs.Get(messages.AdminDisabled)
	case errors.As(err, &lockErr):
		return http.StatusConflict, CodeLockBusy, h.msgs.Get(messages.CommonLockBusy)
	default:
		return http.StatusInternalServerError, CodeInternal, h.msgs.Get(messages.CommonInternalError)
	}
}
