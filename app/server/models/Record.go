package models

import "gorm.io/gorm"

// Record 表示一笔收支记录
// 金额用分存储，避免浮点误差，比如 12.34 元 = 1234 分
type Record struct {
	gorm.Model

	UserID   uint   `gorm:"column:user_id;index;not null"` // 所属用户
	Amount   int64  `gorm:"column:amount;not null"`        // 金额（分）
	Category string `gorm:"column:category;size:16;index"` // outgoings 或 income
	Notes    []byte `gorm:"column:notes"`                  // 备注密文（AES-GCM），空备注为 NULL
}
