package assets

import _ "embed" // 에셋 임베드용

// GameMessagesYAML 는 사용자 노출 문구 YAML이다. (루트 키: chatgame)
//
//go:embed messages/game-messages.yml
var GameMessagesYAML string

// LockReleaseLua 는 토큰 비교 후 락을 삭제하는 Lua 스크립트다.
//
//go:embed lua/lock_release.lua
var LockReleaseLua string

// LockRenewLua 는 토큰이 일치할 때만 락 TTL 을 연장한다.
//
//go:embed lua/lock_renew.lua
var LockRenewLua string

// DefaultCatalogYAML 는 빈 DB 에 채워 넣는 기본 시나리오 목록이다.
//
//go:embed catalog/default-catalog.yml
var DefaultCatalogYAML string
