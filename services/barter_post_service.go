package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"barterhub_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// PostFilter is the loose criteria accepted by the post pipeline. Zero values
// mean "no filter" except Status, which defaults to open.
type PostFilter struct {
	UploaderID   string
	SearchTerm   string
	Tags         []string
	Location     string
	Availability string // YYYY-MM-DD
	Status       string
	Page         int
	Size         int
}

type BarterPostService struct {
	Dynamo   DynamoAPI
	Media    MediaStore
	Profiles *UserProfileService
}

func postKey(postID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: postID},
	}
}

// ownerDisplay is the per-call snapshot of an uploader's display data used to
// enrich a page of posts.
type ownerDisplay struct {
	DisplayName     string
	ProfileImageURL string
}

// GetFilteredPosts answers "page N of posts matching criteria C".
//
// Pipeline order: one store query with the filters the store supports
// natively (status, uploader, location, tag overlap), ordered by creation
// timestamp descending; owner enrichment; then the in-memory filters the
// store cannot express (substring search, availability date); pagination
// last, over the post-filter list. The in-memory filters are order-stable, so
// the ordering from the store query survives them.
func (bps *BarterPostService) GetFilteredPosts(ctx context.Context, filter PostFilter) ([]models.BarterPost, error) {
	status := filter.Status
	if status == "" {
		status = models.PostStatusOpen
	}

	equals := map[string]string{"status": status}
	if filter.UploaderID != "" {
		equals["userId"] = filter.UploaderID
	}
	if filter.Location != "" {
		equals["location"] = filter.Location
	}

	// The store's contains-any filter takes at most 10 values. More than
	// that is a documented limitation: log it and proceed as if no tag
	// filter were given.
	tags := filter.Tags
	if len(tags) > MaxContainsAnyValues {
		log.Printf("Too many tag filter values (%d, max %d). Skipping tag filter for this call.", len(tags), MaxContainsAnyValues)
		tags = nil
	}

	items, err := bps.Dynamo.ScanItems(ctx, models.BarterPostsTable, equals, "tags", tags, "createdAt", true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filtered posts: %w", err)
	}

	var posts []models.BarterPost
	if err := attributevalue.UnmarshalListOfMaps(items, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
	}

	if err := bps.enrichWithOwners(ctx, posts); err != nil {
		return nil, err
	}

	if filter.SearchTerm != "" {
		term := strings.ToLower(filter.SearchTerm)
		filtered := posts[:0]
		for _, post := range posts {
			if strings.Contains(strings.ToLower(post.Title), term) ||
				strings.Contains(strings.ToLower(post.Description), term) ||
				strings.Contains(strings.ToLower(post.PreferredExchange), term) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	if filter.Availability != "" {
		filterDate, err := time.Parse("2006-01-02", filter.Availability)
		if err != nil {
			// Malformed date disables the filter rather than failing the request.
			log.Printf("Invalid availability filter date %q. Skipping availability filter.", filter.Availability)
		} else {
			filtered := posts[:0]
			for _, post := range posts {
				if postAvailableOn(post, filterDate) {
					filtered = append(filtered, post)
				}
			}
			posts = filtered
		}
	}

	start := filter.Page * filter.Size
	if start >= len(posts) {
		return []models.BarterPost{}, nil
	}
	end := start + filter.Size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end], nil
}

// postAvailableOn reports whether the date falls inclusively inside any of
// the post's availability ranges, comparing UTC calendar dates only.
func postAvailableOn(post models.BarterPost, date time.Time) bool {
	for _, rng := range post.Availability {
		start, err := rng.StartDate()
		if err != nil {
			continue
		}
		end, err := rng.EndDate()
		if err != nil {
			continue
		}
		if !date.Before(start) && !date.After(end) {
			return true
		}
	}
	return false
}

// enrichWithOwners overwrites each post's denormalized owner display data
// with the owner's current profile, fetching every distinct owner once per
// call. A missing profile yields a placeholder rather than failing the page.
func (bps *BarterPostService) enrichWithOwners(ctx context.Context, posts []models.BarterPost) error {
	cache := make(map[string]ownerDisplay)

	for i := range posts {
		display, ok := cache[posts[i].UserID]
		if !ok {
			profile, err := bps.Profiles.GetUserProfile(ctx, posts[i].UserID)
			switch {
			case err == nil:
				display = ownerDisplay{DisplayName: profile.DisplayName, ProfileImageURL: profile.ProfileImageURL}
			case isNotFound(err):
				log.Printf("User profile not found for uploader %s of post %s. Defaulting display name.", posts[i].UserID, posts[i].ID)
				display = ownerDisplay{DisplayName: models.UnknownUserName}
			default:
				return fmt.Errorf("failed to resolve uploader %s: %w", posts[i].UserID, err)
			}
			cache[posts[i].UserID] = display
		}
		posts[i].DisplayName = display.DisplayName
		posts[i].ProfileImageURL = display.ProfileImageURL
	}
	return nil
}

// GetPostByID fetches a single post enriched with its owner's current
// display data.
func (bps *BarterPostService) GetPostByID(ctx context.Context, postID string) (*models.BarterPost, error) {
	item, err := bps.Dynamo.GetItem(ctx, models.BarterPostsTable, postKey(postID))
	if err != nil {
		return nil, err
	}

	var post models.BarterPost
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	posts := []models.BarterPost{post}
	if err := bps.enrichWithOwners(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// GetPostByIDForEdit fetches a post for its owner's edit screen; everyone
// else gets a forbidden error.
func (bps *BarterPostService) GetPostByIDForEdit(ctx context.Context, postID string, callerID string) (*models.BarterPost, error) {
	post, err := bps.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != callerID {
		return nil, fmt.Errorf("%w: only the owner can edit this post", ErrForbidden)
	}
	return post, nil
}

// CreatePost validates and stores a new post owned by the caller, uploading
// its image first when one is attached.
func (bps *BarterPostService) CreatePost(ctx context.Context, post models.BarterPost, image []byte, imageType string, callerID string) (*models.BarterPost, error) {
	post.ID = uuid.New().String()
	post.UserID = callerID
	post.Status = models.PostStatusOpen
	post.CreatedAt = nowISO()

	if err := validate.Struct(post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Snapshot the owner's display data onto the post at write time.
	profile, err := bps.Profiles.GetUserProfile(ctx, callerID)
	switch {
	case err == nil:
		post.DisplayName = profile.DisplayName
		post.ProfileImageURL = profile.ProfileImageURL
	case isNotFound(err):
		log.Printf("User profile not found for %s. Creating post with placeholder display name.", callerID)
		post.DisplayName = models.UnknownUserName
		post.ProfileImageURL = ""
	default:
		return nil, err
	}

	if len(image) > 0 {
		imageURL, err := bps.Media.Upload(ctx, image, imageType)
		if err != nil {
			return nil, err
		}
		post.ImageURL = imageURL
	}

	if err := bps.Dynamo.PutItem(ctx, models.BarterPostsTable, post); err != nil {
		return nil, err
	}
	log.Printf("Created post %s for user %s", post.ID, callerID)
	return &post, nil
}

// UpdatePost merges the provided fields into an existing post. Only the
// owner may update; replacing or removing the image deletes the prior blob
// (best-effort). The creation timestamp never changes.
func (bps *BarterPostService) UpdatePost(ctx context.Context, postID string, updates models.BarterPost, newImage []byte, imageType string, callerID string) (*models.BarterPost, error) {
	item, err := bps.Dynamo.GetItem(ctx, models.BarterPostsTable, postKey(postID))
	if err != nil {
		return nil, err
	}

	var existing models.BarterPost
	if err := attributevalue.UnmarshalMap(item, &existing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	if existing.UserID != callerID {
		return nil, fmt.Errorf("%w: only the owner can update this post", ErrForbidden)
	}

	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if updates.Type != "" {
		if updates.Type != models.PostTypeOffer && updates.Type != models.PostTypeRequest {
			return nil, fmt.Errorf("%w: type must be offer or request", ErrInvalidInput)
		}
		existing.Type = updates.Type
	}
	if updates.Tags != nil {
		existing.Tags = updates.Tags
	}
	if updates.PreferredExchange != "" {
		existing.PreferredExchange = updates.PreferredExchange
	}
	if updates.Location != "" {
		existing.Location = updates.Location
	}
	if updates.Availability != nil {
		existing.Availability = updates.Availability
	}
	if updates.Status != "" {
		if updates.Status != models.PostStatusOpen && updates.Status != models.PostStatusClosed {
			return nil, fmt.Errorf("%w: status must be open or closed", ErrInvalidInput)
		}
		existing.Status = updates.Status
	}

	if len(newImage) > 0 {
		imageURL, err := bps.Media.Upload(ctx, newImage, imageType)
		if err != nil {
			return nil, err
		}
		if existing.ImageURL != "" {
			if err := bps.Media.Delete(ctx, existing.ImageURL); err != nil {
				log.Printf("Failed to delete replaced image for post %s: %v", postID, err)
			}
		}
		existing.ImageURL = imageURL
	} else if updates.ImageURL == "null" {
		// Explicit removal request from the client.
		if existing.ImageURL != "" {
			if err := bps.Media.Delete(ctx, existing.ImageURL); err != nil {
				log.Printf("Failed to delete image for post %s: %v", postID, err)
			}
		}
		existing.ImageURL = ""
	}

	// Refresh the denormalized owner snapshot alongside the edit.
	profile, err := bps.Profiles.GetUserProfile(ctx, existing.UserID)
	switch {
	case err == nil:
		existing.DisplayName = profile.DisplayName
		existing.ProfileImageURL = profile.ProfileImageURL
	case isNotFound(err):
		existing.DisplayName = models.UnknownUserName
		existing.ProfileImageURL = ""
	default:
		return nil, err
	}

	if err := bps.Dynamo.PutItem(ctx, models.BarterPostsTable, existing); err != nil {
		return nil, err
	}
	log.Printf("Updated post %s by user %s", postID, callerID)
	return &existing, nil
}

// DeletePost removes an owner's post. The attached media blob is deleted
// best-effort: a media failure is logged and the post still goes away.
func (bps *BarterPostService) DeletePost(ctx context.Context, postID string, callerID string) error {
	item, err := bps.Dynamo.GetItem(ctx, models.BarterPostsTable, postKey(postID))
	if err != nil {
		return err
	}

	var post models.BarterPost
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return fmt.Errorf("failed to unmarshal post: %w", err)
	}

	if post.UserID != callerID {
		return fmt.Errorf("%w: only the owner can delete this post", ErrForbidden)
	}

	if post.ImageURL != "" {
		if err := bps.Media.Delete(ctx, post.ImageURL); err != nil {
			log.Printf("Failed to delete image for post %s: %v", postID, err)
		}
	}

	if err := bps.Dynamo.DeleteItem(ctx, models.BarterPostsTable, postKey(postID)); err != nil {
		return err
	}
	log.Printf("Deleted post %s by user %s", postID, callerID)
	return nil
}
