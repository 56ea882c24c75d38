package utils

import "github.com/shopspring/decimal"

func P[T any](v T) *T {
	return &v
}

// CentsToYuan 把分转换成两位小数的元，例如 1234 -> "12.34"
func CentsToYuan(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
