package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"barterhub_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type ReviewService struct {
	Dynamo   DynamoAPI
	Profiles *UserProfileService
}

func reviewKey(reviewID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: reviewID},
	}
}

// GetReviewsForUser lists the reviews a user has received, newest first.
func (rs *ReviewService) GetReviewsForUser(ctx context.Context, toUserID string) ([]models.Review, error) {
	return rs.listReviews(ctx, map[string]string{"toUserId": toUserID})
}

// GetReviewsByAuthor lists the reviews a user has written, newest first.
func (rs *ReviewService) GetReviewsByAuthor(ctx context.Context, fromUserID string) ([]models.Review, error) {
	return rs.listReviews(ctx, map[string]string{"fromUserId": fromUserID})
}

// GetReviewsForPost lists the reviews tied to a barter post, newest first.
func (rs *ReviewService) GetReviewsForPost(ctx context.Context, barterPostID string) ([]models.Review, error) {
	return rs.listReviews(ctx, map[string]string{"barterPostId": barterPostID})
}

func (rs *ReviewService) listReviews(ctx context.Context, equals map[string]string) ([]models.Review, error) {
	items, err := rs.Dynamo.ScanItems(ctx, models.ReviewsTable, equals, "", nil, "createdAt", true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	var reviews []models.Review
	if err := attributevalue.UnmarshalListOfMaps(items, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reviews: %w", err)
	}

	rs.populateReviewers(ctx, reviews)
	return reviews, nil
}

// GetReviewByID fetches a single review with its reviewer snapshot refreshed.
func (rs *ReviewService) GetReviewByID(ctx context.Context, reviewID string) (*models.Review, error) {
	item, err := rs.Dynamo.GetItem(ctx, models.ReviewsTable, reviewKey(reviewID))
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := attributevalue.UnmarshalMap(item, &review); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review: %w", err)
	}

	reviews := []models.Review{review}
	rs.populateReviewers(ctx, reviews)
	return &reviews[0], nil
}

// populateReviewers refreshes each review's denormalized reviewer display
// name, fetching every distinct reviewer once. Missing profiles fall back to
// the placeholder name; lookups never fail the listing.
func (rs *ReviewService) populateReviewers(ctx context.Context, reviews []models.Review) {
	names := make(map[string]string)

	for i := range reviews {
		fromID := reviews[i].FromUserID
		if fromID == "" {
			continue
		}
		name, ok := names[fromID]
		if !ok {
			profile, err := rs.Profiles.GetUserProfile(ctx, fromID)
			if err != nil {
				if !isNotFound(err) {
					log.Printf("Failed to resolve reviewer %s: %v", fromID, err)
				}
				name = models.UnknownUserName
			} else {
				name = profile.DisplayName
			}
			names[fromID] = name
		}
		reviews[i].FromUser = &models.ReviewUser{UserID: fromID, DisplayName: name}
	}
}

// CreateReview validates and stores a review written by the caller, then
// recomputes the reviewee's average rating. A failed recompute is logged but
// never unwinds the created review.
func (rs *ReviewService) CreateReview(ctx context.Context, review models.Review, callerID string) (*models.Review, error) {
	review.ID = uuid.New().String()
	review.FromUserID = callerID
	review.CreatedAt = nowISO()

	if err := validate.Struct(review); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	// Snapshot the reviewer's display name at write time.
	profile, err := rs.Profiles.GetUserProfile(ctx, callerID)
	switch {
	case err == nil:
		review.FromUser = &models.ReviewUser{UserID: callerID, DisplayName: profile.DisplayName}
	case isNotFound(err):
		log.Printf("Reviewer profile not found for %s. Creating review with placeholder display name.", callerID)
		review.FromUser = &models.ReviewUser{UserID: callerID, DisplayName: models.UnknownUserName}
	default:
		return nil, err
	}

	if err := rs.Dynamo.PutItem(ctx, models.ReviewsTable, review); err != nil {
		return nil, err
	}
	log.Printf("Created review %s from user %s to user %s", review.ID, callerID, review.ToUserID)

	if err := rs.recalculateUserRating(ctx, review.ToUserID); err != nil {
		log.Printf("Rating recompute failed for user %s after review create: %v", review.ToUserID, err)
	}
	return &review, nil
}

// DeleteReview removes a review; only its author may do so. The reviewee's
// average rating is recomputed afterwards, best-effort.
func (rs *ReviewService) DeleteReview(ctx context.Context, reviewID string, callerID string) error {
	item, err := rs.Dynamo.GetItem(ctx, models.ReviewsTable, reviewKey(reviewID))
	if err != nil {
		return err
	}

	var review models.Review
	if err := attributevalue.UnmarshalMap(item, &review); err != nil {
		return fmt.Errorf("failed to unmarshal review: %w", err)
	}

	if review.FromUserID != callerID {
		return fmt.Errorf("%w: only the review author can delete it", ErrForbidden)
	}

	if err := rs.Dynamo.DeleteItem(ctx, models.ReviewsTable, reviewKey(reviewID)); err != nil {
		return err
	}
	log.Printf("Deleted review %s by user %s", reviewID, callerID)

	if err := rs.recalculateUserRating(ctx, review.ToUserID); err != nil {
		log.Printf("Rating recompute failed for user %s after review delete: %v", review.ToUserID, err)
	}
	return nil
}

// recalculateUserRating recomputes the reviewee's mean rating from every
// review on record and writes it through the partial-field update path. The
// recompute is idempotent and takes no locks: two concurrent mutations may
// each compute from a snapshot missing the other's write, and the next
// mutation's recompute corrects it.
func (rs *ReviewService) recalculateUserRating(ctx context.Context, toUserID string) error {
	reviews, err := rs.listReviews(ctx, map[string]string{"toUserId": toUserID})
	if err != nil {
		return err
	}

	var sum float64
	for _, review := range reviews {
		sum += float64(review.Rating)
	}

	rating := 0.0
	if len(reviews) > 0 {
		rating = roundHalfUp(sum/float64(len(reviews)), 2)
	}

	if err := rs.Profiles.UpdateProfileFields(ctx, toUserID, map[string]interface{}{"rating": rating}); err != nil {
		return err
	}
	log.Printf("Recalculated rating for user %s: %.2f (based on %d reviews)", toUserID, rating, len(reviews))
	return nil
}

// roundHalfUp rounds to the given number of decimal places with ties going
// away from zero, matching how the ratings were historically computed.
func roundHalfUp(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(value*shift+0.5) / shift
}
