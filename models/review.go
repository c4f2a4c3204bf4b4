package models

// ReviewUser is the denormalized reviewer snapshot shipped with each review
// for display purposes.
type ReviewUser struct {
	UserID      string `dynamodbav:"userId" json:"userId"`
	DisplayName string `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
}

// Review is a rating left by one user for another, optionally tied to a
// barter post. Reviews are immutable after creation except for deletion.
type Review struct {
	ID           string      `dynamodbav:"id" json:"id"`
	Rating       int         `dynamodbav:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment      string      `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	ToUserID     string      `dynamodbav:"toUserId" json:"toUserId" validate:"required"`
	FromUserID   string      `dynamodbav:"fromUserId" json:"fromUserId"`
	FromUser     *ReviewUser `dynamodbav:"fromUser,omitempty" json:"fromUser,omitempty"`
	BarterPostID string      `dynamodbav:"barterPostId,omitempty" json:"barterPostId,omitempty"`
	CreatedAt    string      `dynamodbav:"createdAt" json:"createdAt"`
}

// ReviewsTable is the DynamoDB table name for reviews
const ReviewsTable = "Reviews"
