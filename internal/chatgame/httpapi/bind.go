package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/httputil"
)

// newValidator: 에러 필드명을 json 태그 이름으로 보고하는 validator
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// readBody: JSON 본문을 읽는다. allowEmpty 이면 빈 본문은 zero value 로 둔다.
func (h *Handler) readBody(c *gin.Context, out any, allowEmpty bool) error {
	err := httputil.ReadJSON(c.Request, out, h.maxBodyBytes)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, httputil.ErrEmptyBody) && allowEmpty:
		return nil
	default:
		return cerrors.MalformedInputError{Message: err.Error()}
	}
}

// decodePartial: 부분 업데이트 맵을 기존 값 위에 덮어쓴다.
func decodePartial(patch map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(patch); err != nil {
		return cerrors.MalformedInputError{Message: err.Error()}
	}
	return nil
}

// parseItemID: 숫자 또는 숫자 문자열 id. 비어 있거나 0 이면 nil (무작위 선택).
func parseItemID(raw any) (*int, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if v == 0 {
			return nil, nil
		}
		if v != float64(int(v)) {
			return nil, cgerr.InvalidRequestError{Field: "item_id", Reason: "not an integer"}
		}
		id := int(v)
		return &id, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, cgerr.InvalidRequestError{Field: "item_id", Reason: "not an integer"}
		}
		if id == 0 {
			return nil, nil
		}
		return &id, nil
	default:
		return nil, cgerr.InvalidRequestError{Field: "item_id", Reason: "unsupported type"}
	}
}

func pathID(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, cgerr.InvalidRequestError{Field: "id", Reason: "invalid item id"}
	}
	return id, nil
}
