package dto

// StatusBreakdown counts issues per board column. The fields cover the
// closed status enum so every response is zero-filled, never sparse.
type StatusBreakdown struct {
	ToDo       int `json:"To-Do"`
	InProgress int `json:"In-Progress"`
	Review     int `json:"Review"`
	Done       int `json:"Done"`
}

// PriorityBreakdown counts issues per priority over the closed enum.
type PriorityBreakdown struct {
	Low      int `json:"Low"`
	Medium   int `json:"Medium"`
	High     int `json:"High"`
	Critical int `json:"Critical"`
}

// AssigneeDistribution is the per-assignee rollup within a project
type AssigneeDistribution struct {
	User     UserDTO         `json:"user"`
	Count    int             `json:"count"`
	ByStatus StatusBreakdown `json:"byStatus"`
}

// ProjectAnalytics is the rollup for a single project
type ProjectAnalytics struct {
	TotalIssues            int                    `json:"totalIssues"`
	IssuesByStatus         StatusBreakdown        `json:"issuesByStatus"`
	IssuesByPriority       PriorityBreakdown      `json:"issuesByPriority"`
	MemberWiseDistribution []AssigneeDistribution `json:"memberWiseDistribution"`
	UnassignedCount        int                    `json:"unassignedCount"`
	CompletionRate         float64                `json:"completionRate"`
}

// ProjectDistribution is the per-project slice of a user's assigned issues
type ProjectDistribution struct {
	Project ProjectRefDTO `json:"project"`
	Count   int           `json:"count"`
}

// UserAnalytics is the rollup of issues assigned to one user
type UserAnalytics struct {
	TotalAssigned       int                   `json:"totalAssigned"`
	IssuesByStatus      StatusBreakdown       `json:"issuesByStatus"`
	IssuesByPriority    PriorityBreakdown     `json:"issuesByPriority"`
	ProjectDistribution []ProjectDistribution `json:"projectDistribution"`
}
