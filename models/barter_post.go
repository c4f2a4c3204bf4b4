package models

import "time"

// AvailabilityRange is one window during which a post's owner can trade.
// Start and End are stored as strings; either a bare "2006-01-02" date or a
// full RFC3339 timestamp is accepted.
type AvailabilityRange struct {
	Start string `dynamodbav:"start" json:"start"`
	End   string `dynamodbav:"end" json:"end"`
}

// StartDate returns the range start truncated to a UTC calendar date.
func (a AvailabilityRange) StartDate() (time.Time, error) {
	return parseCalendarDate(a.Start)
}

// EndDate returns the range end truncated to a UTC calendar date.
func (a AvailabilityRange) EndDate() (time.Time, error) {
	return parseCalendarDate(a.End)
}

func parseCalendarDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// BarterPost is a skill or item listed for exchange.
//
// CreatedAt is kept as an ISO-8601 string on purpose: RFC3339 UTC strings sort
// lexicographically in chronological order, and the store orders pages by this
// field. DisplayName and ProfileImageURL are snapshots of the owner's profile
// taken at write time and refreshed on every read through the pipeline;
// staleness between writes is accepted.
type BarterPost struct {
	ID                string              `dynamodbav:"id" json:"id"`
	UserID            string              `dynamodbav:"userId" json:"userId"`
	Title             string              `dynamodbav:"title" json:"title" validate:"required"`
	Description       string              `dynamodbav:"description" json:"description" validate:"required"`
	Type              string              `dynamodbav:"type" json:"type" validate:"required,oneof=offer request"`
	Tags              []string            `dynamodbav:"tags,omitempty" json:"tags,omitempty"`
	PreferredExchange string              `dynamodbav:"preferredExchange,omitempty" json:"preferredExchange,omitempty"`
	ImageURL          string              `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Location          string              `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Availability      []AvailabilityRange `dynamodbav:"availability,omitempty" json:"availability,omitempty"`
	Status            string              `dynamodbav:"status" json:"status"`
	CreatedAt         string              `dynamodbav:"createdAt" json:"createdAt"`
	DisplayName       string              `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	ProfileImageURL   string              `dynamodbav:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
}

// BarterPostsTable is the DynamoDB table name for barter posts
const BarterPostsTable = "BarterPosts"
