package types

import "time"

type ErrorMessage struct {
	Message *string `json:"message,omitempty"`
}

type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

type UserInfo struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RecordInfo struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Amount     int64     `json:"amount"`      // 分
	AmountYuan string    `json:"amount_yuan"` // 元，两位小数
	Category   string    `json:"category"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RecordSummary struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	Amount     int64  `json:"amount"`
	AmountYuan string `json:"amount_yuan"`
}

type Pager struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Count   int64 `json:"count"`
}

// Resource 包装单个资源：{"resource": ...}
type Resource[T any] struct {
	Resource T `json:"resource"`
}

type ResourceList[T any] struct {
	Resources []T    `json:"resources"`
	Pager     *Pager `json:"pager,omitempty"`
}

type SessionToken struct {
	JWT string `json:"jwt"`
}
