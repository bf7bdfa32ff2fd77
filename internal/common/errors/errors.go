// Package errors: 여러 도메인 패키지가 공유하는 인프라스트럭처 에러 타입을 정의한다.
package errors

import (
	"errors"
	"fmt"
)

// RedisError: Valkey 작업을 수행하는 도중 발생한 에러
type RedisError struct {
	Operation string
	Err       error
}

func (e RedisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redis error operation=%s", e.Operation)
	}
	return fmt.Sprintf("redis error operation=%s: %v", e.Operation, e.Err)
}

func (e RedisError) Unwrap() error { return e.Err }

// DatabaseError: 데이터베이스 작업을 수행하는 도중 발생한 에러
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// LockError: 세션 락 획득 실패 등 락 처리 중 발생하는 에러
type LockError struct {
	SessionID   string
	HolderName  *string
	Description string
}

func (e LockError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = "failed to acquire lock"
	}
	if e.SessionID != "" {
		msg = fmt.Sprintf("%s session=%s", msg, e.SessionID)
	}
	if e.HolderName != nil && *e.HolderName != "" {
		msg = fmt.Sprintf("%s holder=%s", msg, *e.HolderName)
	}
	return msg
}

// MalformedInputError: 요청 본문이나 파라미터 형식이 올바르지 않을 때 발생하는 에러
type MalformedInputError struct {
	Message string
}

func (e MalformedInputError) Error() string {
	if e.Message == "" {
		return "malformed input"
	}
	return e.Message
}

// UnauthorizedError: 인증 정보가 없거나 유효하지 않을 때 발생하는 에러
type UnauthorizedError struct {
	Reason string
}

func (e UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// expectedUserBehaviorTypes: 클라이언트 실수로 간주되는 에러 타입들
var expectedUserBehaviorTypes = []func() any{
	func() any { return new(MalformedInputError) },
	func() any { return new(UnauthorizedError) },
}

// IsExpectedUserBehavior: 에러가 클라이언트 측 실수인지 확인한다. (warn 레벨 로깅 판단용)
// 도메인 특화 에러는 각 패키지에서 확장하여 사용한다.
func IsExpectedUserBehavior(err error) bool {
	if err == nil {
		return false
	}
	for _, targetFn := range expectedUserBehaviorTypes {
		if errors.As(err, targetFn()) {
			return true
		}
	}
	return false
}
