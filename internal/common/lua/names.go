package lua

// 스크립트 이름 상수.
const (
	// ScriptLockRelease: 토큰이 일치할 때만 세션 락 키를 삭제합니다.
	ScriptLockRelease = "lock_release"
	// ScriptLockRenew: 토큰이 일치할 때만 세션 락 TTL 을 연장합니다.
	ScriptLockRenew = "lock_renew"
)
