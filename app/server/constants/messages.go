package constants

// 字段校验失败时返回给用户的提示
const (
	MsgEmailBlank       = "邮箱不能为空"
	MsgEmailInvalid     = "邮箱格式不正确"
	MsgEmailTaken       = "邮箱已被占用"
	MsgPasswordBlank    = "密码不能为空"
	MsgPasswordTooShort = "密码不能少于6位"
	MsgSignInFailed     = "邮箱或密码错误"

	MsgAmountBlank       = "金额不能为空"
	MsgAmountInvalid     = "金额必须是整数（单位：分）"
	MsgCategoryInclusion = "类型只能是 outgoings 或 income"
	MsgNotesTooLong      = "备注不能超过255个字符"
)

const PasswordMinLength = 6
