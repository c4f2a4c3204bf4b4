package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"barterhub_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

type UserProfileService struct {
	Dynamo DynamoAPI
	Media  MediaStore
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// GetUserProfile retrieves a user profile by its subject id.
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, profileKey(userID))
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetAllProfiles lists every user profile.
func (ups *UserProfileService) GetAllProfiles(ctx context.Context) ([]models.UserProfile, error) {
	items, err := ups.Dynamo.ScanItems(ctx, models.UserProfilesTable, nil, "", nil, "createdAt", true)
	if err != nil {
		return nil, err
	}

	var profiles []models.UserProfile
	if err := attributevalue.UnmarshalListOfMaps(items, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}
	return profiles, nil
}

// CreateProfile stores a new profile at signup-completion. The profile id is
// the verified token subject, never client-supplied, and the derived rating
// starts at zero.
func (ups *UserProfileService) CreateProfile(ctx context.Context, profile models.UserProfile, image []byte, imageType string, callerID string) (*models.UserProfile, error) {
	profile.UserID = callerID
	profile.Rating = 0
	profile.CreatedAt = nowISO()

	if err := validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(image) > 0 {
		imageURL, err := ups.Media.Upload(ctx, image, imageType)
		if err != nil {
			return nil, err
		}
		profile.ProfileImageURL = imageURL
	}

	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	log.Printf("Created user profile for subject: %s", callerID)
	return &profile, nil
}

// UpdateProfile merges the provided fields into an existing profile. The
// derived rating field is never touched here; only the aggregator path writes
// it. A literal "null" image URL removes the current avatar.
func (ups *UserProfileService) UpdateProfile(ctx context.Context, userID string, updates models.UserProfile, newImage []byte, imageType string, callerID string) (*models.UserProfile, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: only the profile owner can update it", ErrForbidden)
	}

	existing, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if updates.DisplayName != "" {
		existing.DisplayName = updates.DisplayName
	}
	if updates.Location != "" {
		existing.Location = updates.Location
	}
	if updates.Bio != "" {
		existing.Bio = updates.Bio
	}
	if updates.SkillsOffered != nil {
		existing.SkillsOffered = updates.SkillsOffered
	}
	if updates.Needs != nil {
		existing.Needs = updates.Needs
	}

	if len(newImage) > 0 {
		imageURL, err := ups.Media.Upload(ctx, newImage, imageType)
		if err != nil {
			return nil, err
		}
		if existing.ProfileImageURL != "" {
			if err := ups.Media.Delete(ctx, existing.ProfileImageURL); err != nil {
				log.Printf("Failed to delete old profile image for user %s: %v", userID, err)
			}
		}
		existing.ProfileImageURL = imageURL
	} else if updates.ProfileImageURL == "null" {
		if existing.ProfileImageURL != "" {
			if err := ups.Media.Delete(ctx, existing.ProfileImageURL); err != nil {
				log.Printf("Failed to delete profile image for user %s: %v", userID, err)
			}
		}
		existing.ProfileImageURL = ""
	}

	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// UpdateProfileFields applies a partial-field update without rewriting the
// rest of the document. The rating aggregator depends on this path so a
// recompute can never clobber concurrent profile edits.
func (ups *UserProfileService) UpdateProfileFields(ctx context.Context, userID string, updates map[string]interface{}) error {
	if userID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}
	if len(updates) == 0 {
		log.Printf("No updates provided for user profile %s. Skipping update.", userID)
		return nil
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for field, value := range updates {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal update for field '%s': %w", field, err)
		}
		updateExpression += " #" + field + " = :" + field + ","
		expressionAttributeValues[":"+field] = av
		expressionAttributeNames["#"+field] = field
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, profileKey(userID), expressionAttributeValues, expressionAttributeNames)
	return err
}

// DeleteProfile removes a profile and, best-effort, its avatar blob.
func (ups *UserProfileService) DeleteProfile(ctx context.Context, userID string, callerID string) error {
	if callerID != userID {
		return fmt.Errorf("%w: only the profile owner can delete it", ErrForbidden)
	}

	existing, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}

	if existing.ProfileImageURL != "" {
		if err := ups.Media.Delete(ctx, existing.ProfileImageURL); err != nil {
			log.Printf("Failed to delete profile image for user %s: %v", userID, err)
		}
	}

	if err := ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, profileKey(userID)); err != nil {
		return err
	}
	log.Printf("Deleted user profile: %s", userID)
	return nil
}
