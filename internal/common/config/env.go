package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookupFirst: 키 목록 중 공백이 아닌 값을 가진 첫 번째 환경 변수를 찾습니다.
func lookupFirst(keys ...string) (key string, value string, ok bool) {
	for _, k := range keys {
		raw, exists := os.LookupEnv(k)
		if !exists {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		return k, raw, true
	}
	return "", "", false
}

func parseBool(key string, raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool env %s=%q", key, raw)
	}
}

func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// IntFromEnv: 환경 변수에서 정수 값을 읽어옵니다.
func IntFromEnv(key string, defaultValue int) (int, error) {
	return IntFromEnvFirstNonEmpty([]string{key}, defaultValue)
}

// IntFromEnvFirstNonEmpty: 여러 키 중 첫 번째로 설정된 정수 값을 반환합니다.
func IntFromEnvFirstNonEmpty(keys []string, defaultValue int) (int, error) {
	key, raw, ok := lookupFirst(keys...)
	if !ok {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid int env %s=%q: %w", key, raw, err)
	}
	return value, nil
}

// Int64FromEnv: 환경 변수에서 64비트 정수 값을 읽어옵니다.
func Int64FromEnv(key string, defaultValue int64) (int64, error) {
	_, raw, ok := lookupFirst(key)
	if !ok {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int64 env %s=%q: %w", key, raw, err)
	}
	return value, nil
}

// Float64FromEnv: 환경 변수에서 실수 값을 읽어옵니다.
func Float64FromEnv(key string, defaultValue float64) (float64, error) {
	_, raw, ok := lookupFirst(key)
	if !ok {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float64 env %s=%q: %w", key, raw, err)
	}
	return value, nil
}

// DurationSecondsFromEnv: 초 단위 값을 Duration 으로 읽어옵니다. 음수는 거부합니다.
func DurationSecondsFromEnv(key string, defaultSeconds int64) (time.Duration, error) {
	seconds, err := Int64FromEnv(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, fmt.Errorf("invalid duration seconds env %s=%d", key, seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

// DurationMillisFromEnv: 밀리초 단위 값을 Duration 으로 읽어옵니다.
func DurationMillisFromEnv(key string, defaultMillis int64) (time.Duration, error) {
	millis, err := Int64FromEnv(key, defaultMillis)
	if err != nil {
		return 0, err
	}
	if millis < 0 {
		return 0, fmt.Errorf("invalid duration millis env %s=%d", key, millis)
	}
	return time.Duration(millis) * time.Millisecond, nil
}

// BoolFromEnv: 환경 변수에서 불리언 값을 읽어옵니다. (true/1/yes/y/on, false/0/no/n/off)
func BoolFromEnv(key string, defaultValue bool) (bool, error) {
	return BoolFromEnvFirstNonEmpty([]string{key}, defaultValue)
}

// BoolFromEnvFirstNonEmpty: 여러 키 중 첫 번째로 설정된 불리언 값을 반환합니다.
func BoolFromEnvFirstNonEmpty(keys []string, defaultValue bool) (bool, error) {
	key, raw, ok := lookupFirst(keys...)
	if !ok {
		return defaultValue, nil
	}
	return parseBool(key, raw)
}

// StringFromEnv: 환경 변수에서 문자열 값을 읽어옵니다.
func StringFromEnv(key string, defaultValue string) string {
	return StringFromEnvFirstNonEmpty([]string{key}, defaultValue)
}

// StringFromEnvFirstNonEmpty: 여러 키 중 첫 번째로 설정된 문자열을 반환합니다.
func StringFromEnvFirstNonEmpty(keys []string, defaultValue string) string {
	if _, raw, ok := lookupFirst(keys...); ok {
		return raw
	}
	return defaultValue
}

// StringListFromEnv: 콤마/공백으로 구분된 문자열 목록을 읽어옵니다.
func StringListFromEnv(key string, defaultValue []string) []string {
	if _, raw, ok := lookupFirst(key); ok {
		if items := splitList(raw); len(items) > 0 {
			return items
		}
	}
	return defaultValue
}
