package model

// Export is a validated raw account export. It still carries clear-text
// identifying strings and must never be persisted as-is.
type Export struct {
	// UserID is the partition key for every record derived from this export.
	UserID string `json:"user_id"`

	Profile           Profile               `json:"profile"`
	Posts             []ExportPost          `json:"posts"`
	Stories           []ExportStory         `json:"stories"`
	Comments          []ExportComment       `json:"comments"`
	DirectMessages    []ExportDirectMessage `json:"direct_messages"`
	EngagementMetrics []Engagement          `json:"engagement_metrics"`

	// DataExportTimestamp is when the platform produced the export, exactly as
	// it appeared in the input.
	DataExportTimestamp string `json:"data_export_timestamp"`
}

// Profile is the account profile section of an export.
type Profile struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Bio            string `json:"bio,omitempty"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	PostCount      int64  `json:"post_count"`
	IsVerified     bool   `json:"is_verified"`
	IsPrivate      bool   `json:"is_private"`
	ProfilePicURL  string `json:"profile_pic_url,omitempty"`
}

// PostMedia is one media item attached to a post.
type PostMedia struct {
	// MediaType is photo, video or carousel.
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// ExportPost is a feed post.
type ExportPost struct {
	PostID       string      `json:"post_id"`
	Caption      string      `json:"caption,omitempty"`
	Timestamp    string      `json:"timestamp"`
	LikeCount    int64       `json:"like_count"`
	CommentCount int64       `json:"comment_count"`
	Media        []PostMedia `json:"media"`
	Location     string      `json:"location,omitempty"`
	Hashtags     []string    `json:"hashtags"`
}

// ExportStory is an ephemeral story item.
type ExportStory struct {
	StoryID   string `json:"story_id"`
	Timestamp string `json:"timestamp"`
	MediaType string `json:"media_type"`
	ViewCount int64  `json:"view_count"`
	MediaURL  string `json:"media_url"`
}

// ExportComment is a comment left on one of the account's posts.
type ExportComment struct {
	CommentID      string `json:"comment_id"`
	PostID         string `json:"post_id"`
	Text           string `json:"text"`
	Timestamp      string `json:"timestamp"`
	LikeCount      int64  `json:"like_count"`
	AuthorUsername string `json:"author_username"`
}

// ExportDirectMessage is a single direct message sent or received by the account.
type ExportDirectMessage struct {
	MessageID         string `json:"message_id"`
	ConversationID    string `json:"conversation_id"`
	SenderUsername    string `json:"sender_username"`
	RecipientUsername string `json:"recipient_username"`
	MessageText       string `json:"message_text,omitempty"`
	Timestamp         string `json:"timestamp"`
	// MessageType is text, media or link.
	MessageType string `json:"message_type"`
}

// Engagement is one daily engagement snapshot. These are already aggregate
// figures and contain nothing identifying.
type Engagement struct {
	Date          string `json:"date"`
	ProfileViews  int64  `json:"profile_views"`
	Reach         int64  `json:"reach"`
	Impressions   int64  `json:"impressions"`
	WebsiteClicks int64  `json:"website_clicks"`
}
