// Package valkeyx 는 Valkey 클라이언트 공통 유틸리티를 제공한다.
// 키 생성, 연결, nil 체크, 자주 쓰는 명령 헬퍼를 포함한다.
package valkeyx

import "strings"

// BuildKey 는 prefix와 id를 결합하여 키를 생성한다.
// 형식: {prefix}:{id}
func BuildKey(prefix, id string) string {
	return prefix + ":" + strings.TrimSpace(id)
}

// KeyPattern 는 prefix 아래 모든 키를 매칭하는 SCAN 패턴을 만든다.
func KeyPattern(prefix string) string {
	return prefix + ":*"
}

// TrimKeyPrefix 는 BuildKey 로 만든 키에서 id 부분만 돌려준다.
func TrimKeyPrefix(prefix, key string) string {
	return strings.TrimPrefix(key, prefix+":")
}
