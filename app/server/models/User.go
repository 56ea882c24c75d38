package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email          string `gorm:"column:email;uniqueIndex;not null"` // 邮箱，全局唯一，用于登录
	PasswordDigest string `gorm:"column:password_digest;not null"`   // 密码，使用 argon2id 储存

	Records []Record `gorm:"foreignKey:UserID"`
}
