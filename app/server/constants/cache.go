package constants

const (
	CacheKeySession = "mangosteen:session:%s" // %s -> session id
)

// 邮件队列
const (
	MailQueueKey = "mangosteen:mail:queue" // 待发送
	MailRetryKey = "mangosteen:mail:retry" // 等待重试，score 为下次尝试的 unix 时间
	MailDeadKey  = "mangosteen:mail:dead"  // 放弃发送
)
