package dto

// ClassSummaryResponse aggregates talent balances for one class.
type ClassSummaryResponse struct {
	Class        string                `json:"class"`
	StudentCount int                   `json:"student_count"`
	TotalTalents int                   `json:"total_talents"`
	Students     []StudentBalanceEntry `json:"students"`
}

// StudentBalanceEntry is one student's balance inside a class summary.
type StudentBalanceEntry struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	Talents   int    `json:"talents"`
}
