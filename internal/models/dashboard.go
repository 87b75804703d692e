package models

// StatusCounts is a per-status tally of moderated rows.
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// Total sums all statuses.
func (c StatusCounts) Total() int64 {
	return c.Pending + c.Approved + c.Rejected
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	Establishments         StatusCounts `json:"establishments"`
	Employees              StatusCounts `json:"employees"`
	Comments               StatusCounts `json:"comments"`
	PendingOwnershipClaims int64        `json:"pending_ownership_requests"`
	PendingReports         int64        `json:"pending_reports"`
	TotalUsers             int64        `json:"total_users"`
	Fallback               bool         `json:"fallback,omitempty"`
}
