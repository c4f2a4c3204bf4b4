package models

// Post types (what the uploader is offering or looking for)
const (
	PostTypeOffer   = "offer"
	PostTypeRequest = "request"
)

// Post statuses
const (
	PostStatusOpen   = "open"
	PostStatusClosed = "closed"
)

// Chat types (direct, group)
const (
	ChatTypeDirect = "direct"
	ChatTypeGroup  = "group"
)

// UnknownUserName is the placeholder display name used when a referenced
// profile no longer exists.
const UnknownUserName = "Unknown User"
