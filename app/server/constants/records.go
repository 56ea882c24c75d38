package constants

const (
	RecordPageSize = 10        // 列表每页固定条数
	RecordMaxPage  = 1_000_000 // 超过的页码按最后这页处理，避免 offset 溢出
)

const (
	RecordCategoryOutgoings = "outgoings"
	RecordCategoryIncome    = "income"
)

const RecordNotesMaxLength = 255
