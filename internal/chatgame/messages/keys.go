package messages

// 게임 시작 메시지 키
const (
	StartWelcome      = "start.welcome"
	StartItemNotFound = "start.item_not_found"
	StartCatalogEmpty = "start.catalog_empty"
)

// 질문 처리 메시지 키
const (
	AskMissingFields   = "ask.missing_fields"
	AskMessageTooLong  = "ask.message_too_long"
	AskSessionNotFound = "ask.session_not_found"
	AskApology         = "ask.apology"
)

// 치트 응답 키
const (
	CheatVictory = "cheat.victory"
	CheatDefeat  = "cheat.defeat"
)

// 종료 메시지 키
const (
	EndMissingGameID     = "end.missing_game_id"
	EndFinishedPrefix    = "end.finished_prefix"
	EndVictory           = "end.victory"
	EndDefeat            = "end.defeat"
	EndUnknown           = "end.unknown"
	EndEvaluationVictory = "end.evaluation_victory"
	EndEvaluationDefeat  = "end.evaluation_defeat"
)

// 프롬프트 템플릿 키
const (
	PromptSystem              = "prompt.system"
	PromptStatus              = "prompt.status"
	PromptAdminDefault        = "prompt.admin_default"
	PromptAdminDefaultWelcome = "prompt.admin_default_welcome"
)

// 스텁 생성기 응답 키
const (
	StubDefault = "stub.default"
	StubPhone   = "stub.phone"
	StubOffer   = "stub.offer"
)

// 관리자 API 메시지 키
const (
	AdminLoginSuccess    = "admin.login_success"
	AdminLoginFailed     = "admin.login_failed"
	AdminLoginThrottled  = "admin.login_throttled"
	AdminMissingHeader   = "admin.missing_header"
	AdminTokenExpired    = "admin.token_expired"
	AdminTokenInvalid    = "admin.token_invalid"
	AdminDisabled        = "admin.disabled"
	AdminMissingField    = "admin.missing_field"
	AdminMissingItemID   = "admin.missing_item_id"
	AdminItemNotFound    = "admin.item_not_found"
	AdminItemCreated     = "admin.item_created"
	AdminItemUpdated     = "admin.item_updated"
	AdminItemDeleted     = "admin.item_deleted"
	AdminPromptSaved     = "admin.prompt_saved"
	AdminSessionRemoved  = "admin.session_removed"
	AdminSessionNotFound = "admin.session_not_found"
)

// 공통 메시지 키
const (
	CommonInvalidJSON   = "common.invalid_json"
	CommonInternalError = "common.internal_error"
	CommonLockBusy      = "common.lock_busy"
	CommonHealth        = "common.health"
)
