package models

// BuddyRequest is a directed connection proposal between two users,
// optionally scoped to a plan. The request key is the (from, to, plan)
// triple, which is unique regardless of status.
type BuddyRequest struct {
	RequestKey string `dynamodbav:"requestKey" json:"-"`
	RequestID  string `dynamodbav:"requestId" json:"requestId"`
	FromUser   string `dynamodbav:"fromUser" json:"fromUser"`
	ToUser     string `dynamodbav:"toUser" json:"toUser"`
	PlanID     string `dynamodbav:"planId,omitempty" json:"planId,omitempty"`
	Message    string `dynamodbav:"message,omitempty" json:"message,omitempty"`
	Status     string `dynamodbav:"status" json:"status"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// RequestKey builds the unique triple key. The "no plan" context is a
// distinct value so plan-less requests dedupe among themselves.
func RequestKey(fromUser, toUser, planID string) string {
	if planID == "" {
		planID = "-"
	}
	return fromUser + "#" + toUser + "#" + planID
}

// BuddyRequestsTable is the DynamoDB table name for buddy requests
const BuddyRequestsTable = "BuddyRequests"
