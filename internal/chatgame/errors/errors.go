// Package errors: 대화형 게임 도메인에 특화된 에러 타입들을 정의한다.
// 공통 에러 타입(RedisError, LockError 등)은 common/errors 패키지를 직접 사용한다.
package errors

import (
	"errors"
	"fmt"

	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
)

// SessionNotFoundError: 게임 세션을 찾을 수 없을 때 발생하는 에러
type SessionNotFoundError struct {
	SessionID string
}

func (e SessionNotFoundError) Error() string {
	if e.SessionID == "" {
		return "session not found"
	}
	return fmt.Sprintf("session not found sessionId=%s", e.SessionID)
}

// CatalogItemNotFoundError: 요청한 카탈로그 항목이 없을 때 발생하는 에러
type CatalogItemNotFoundError struct {
	ItemID int
}

func (e CatalogItemNotFoundError) Error() string {
	return fmt.Sprintf("catalog item not found id=%d", e.ItemID)
}

// CatalogEmptyError: 무작위로 고를 항목이 하나도 없을 때 발생하는 에러
type CatalogEmptyError struct{}

func (e CatalogEmptyError) Error() string { return "catalog is empty" }

// InvalidRequestError: 필수 값 누락 등 요청 검증 실패
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e InvalidRequestError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request field=%s: %s", e.Field, e.Reason)
}

// GeneratorError: 응답 생성기 호출 실패 (타임아웃 포함)
type GeneratorError struct {
	Provider string
	Err      error
}

func (e GeneratorError) Error() string {
	return fmt.Sprintf("generator failed provider=%s: %v", e.Provider, e.Err)
}

func (e GeneratorError) Unwrap() error { return e.Err }

// AuthError: 관리자 인증 실패
type AuthError struct {
	Reason  string
	Expired bool
}

func (e AuthError) Error() string {
	if e.Expired {
		return "auth failed: token expired"
	}
	return "auth failed: " + e.Reason
}

// RateLimitedError: 로그인 시도 제한 초과
type RateLimitedError struct {
	Key string
}

func (e RateLimitedError) Error() string { return "rate limited key=" + e.Key }

// IsExpectedUserBehavior: 클라이언트 요청 문제로 발생한 에러인지 확인한다. (warn 레벨 로깅 판단용)
func IsExpectedUserBehavior(err error) bool {
	if err == nil {
		return false
	}
	var (
		notFound     SessionNotFoundError
		itemNotFound CatalogItemNotFoundError
		invalid      InvalidRequestError
		auth         AuthError
		limited      RateLimitedError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &itemNotFound), errors.As(err, &invalid),
		errors.As(err, &auth), errors.As(err, &limited):
		return true
	default:
		return cerrors.IsExpectedUserBehavior(err)
	}
}
