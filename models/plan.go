package models

// Plan is a travel plan with a capacity-bounded buddy roster. Only the
// fields the roster and buddy-request paths touch live here; the
// marketplace CRUD owns the rest of the record.
type Plan struct {
	PlanID         string   `dynamodbav:"planId" json:"planId"`
	UserID         string   `dynamodbav:"userId" json:"userId"`
	Title          string   `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Destination    string   `dynamodbav:"destination,omitempty" json:"destination,omitempty"`
	MaxBuddies     int      `dynamodbav:"maxBuddies" json:"maxBuddies"`
	CurrentBuddies []string `dynamodbav:"currentBuddies" json:"currentBuddies"`
	CreatedAt      string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Package is a travel package with an uncapped participant roster.
type Package struct {
	PackageID    string   `dynamodbav:"packageId" json:"packageId"`
	UserID       string   `dynamodbav:"userId" json:"userId"`
	Title        string   `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Participants []string `dynamodbav:"participants" json:"participants"`
	CreatedAt    string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// PlansTable is the DynamoDB table name for travel plans
const PlansTable = "Plans"

// PackagesTable is the DynamoDB table name for travel packages
const PackagesTable = "Packages"
