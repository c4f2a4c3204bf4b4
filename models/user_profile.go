package models

// UserProfile defines the structure for user profiles. UserID is the identity
// provider's subject id and doubles as the table's partition key.
//
// Rating is derived from reviews and is only ever written through the partial
// field-update path; profile edits must never carry it.
type UserProfile struct {
	UserID          string   `dynamodbav:"userId" json:"userId"`
	DisplayName     string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty" validate:"required"`
	Email           string   `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Location        string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Bio             string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	SkillsOffered   []string `dynamodbav:"skillsOffered,omitempty" json:"skillsOffered,omitempty"`
	Needs           []string `dynamodbav:"needs,omitempty" json:"needs,omitempty"`
	Rating          float64  `dynamodbav:"rating" json:"rating"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
	ProfileImageURL string   `dynamodbav:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
