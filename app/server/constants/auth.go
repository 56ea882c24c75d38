package constants

import "time"

const (
	DefaultSessionDuration = 7 * 24 * time.Hour
	SessionCookieName      = "mangosteen_session"
	ContextKeySession      = "session" // echo context 中当前会话的 key
)
