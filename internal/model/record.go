package model

import "time"

// Table names of the analytic record set.
const (
	TableUserProfiles      = "user_profiles"
	TablePosts             = "posts"
	TableMedia             = "media"
	TableStories           = "stories"
	TableComments          = "comments"
	TableDirectMessages    = "direct_messages"
	TableEngagementMetrics = "engagement_metrics"
	TableHashtagUsage      = "hashtag_usage"
	TableActivityPatterns  = "activity_patterns"
)

// Record is one anonymized analytic record.
//
// Row returns the record's values in the order of the table's insertable
// columns in Schema() (auto-increment keys excluded).
type Record interface {
	TableName() string
	Row() []any
}

// UserProfile is the anonymized profile. One per export.
type UserProfile struct {
	UserID         string    `json:"user_id"`
	UsernameHash   string    `json:"username_hash"`
	FullNameHash   string    `json:"full_name_hash"`
	BioLength      int       `json:"bio_length"`
	BioWordCount   int       `json:"bio_word_count"`
	BioHasURL      bool      `json:"bio_has_url"`
	BioHasEmail    bool      `json:"bio_has_email"`
	BioHasHashtags bool      `json:"bio_has_hashtags"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	PostCount      int64     `json:"post_count"`
	IsVerified     bool      `json:"is_verified"`
	IsPrivate      bool      `json:"is_private"`
	DataExportDate time.Time `json:"data_export_date"`
}

// TableName implements Record.
func (UserProfile) TableName() string { return TableUserProfiles }

// Row implements Record.
func (r UserProfile) Row() []any {
	return []any{
		r.UserID, r.UsernameHash, r.FullNameHash,
		r.BioLength, r.BioWordCount, r.BioHasURL, r.BioHasEmail, r.BioHasHashtags,
		r.FollowerCount, r.FollowingCount, r.PostCount,
		r.IsVerified, r.IsPrivate, r.DataExportDate,
	}
}

// Post is an anonymized feed post.
type Post struct {
	PostID        string    `json:"post_id"`
	UserID        string    `json:"user_id"`
	CaptionLength int       `json:"caption_length"`
	PostDate      time.Time `json:"post_date"`
	LikeCount     int64     `json:"like_count"`
	CommentCount  int64     `json:"comment_count"`
	MediaCount    int       `json:"media_count"`
	HasLocation   bool      `json:"has_location"`
	HashtagCount  int       `json:"hashtag_count"`
	// EngagementRate is (likes + comments) / current follower count * 100.
	EngagementRate float64 `json:"engagement_rate"`
}

// TableName implements Record.
func (Post) TableName() string { return TablePosts }

// Row implements Record.
func (r Post) Row() []any {
	return []any{
		r.PostID, r.UserID, r.CaptionLength, r.PostDate,
		r.LikeCount, r.CommentCount, r.MediaCount,
		r.HasLocation, r.HashtagCount, r.EngagementRate,
	}
}

// Media is one media item of a post. Only the media type survives.
type Media struct {
	PostID    string `json:"post_id"`
	MediaType string `json:"media_type"`
}

// TableName implements Record.
func (Media) TableName() string { return TableMedia }

// Row implements Record.
func (r Media) Row() []any {
	return []any{r.PostID, r.MediaType}
}

// Story is an anonymized story.
type Story struct {
	StoryID   string    `json:"story_id"`
	UserID    string    `json:"user_id"`
	StoryDate time.Time `json:"story_date"`
	MediaType string    `json:"media_type"`
	ViewCount int64     `json:"view_count"`
}

// TableName implements Record.
func (Story) TableName() string { return TableStories }

// Row implements Record.
func (r Story) Row() []any {
	return []any{r.StoryID, r.UserID, r.StoryDate, r.MediaType, r.ViewCount}
}

// Comment is an anonymized comment.
type Comment struct {
	CommentID          string    `json:"comment_id"`
	UserID             string    `json:"user_id"`
	PostID             string    `json:"post_id"`
	CommentLength      int       `json:"comment_length"`
	CommentDate        time.Time `json:"comment_date"`
	LikeCount          int64     `json:"like_count"`
	AuthorUsernameHash string    `json:"author_username_hash"`
}

// TableName implements Record.
func (Comment) TableName() string { return TableComments }

// Row implements Record.
func (r Comment) Row() []any {
	return []any{
		r.CommentID, r.UserID, r.PostID, r.CommentLength,
		r.CommentDate, r.LikeCount, r.AuthorUsernameHash,
	}
}

// DirectMessage is an anonymized direct message.
type DirectMessage struct {
	MessageID          string    `json:"message_id"`
	UserID             string    `json:"user_id"`
	ConversationIDHash string    `json:"conversation_id_hash"`
	MessageLength      int       `json:"message_length"`
	MessageDate        time.Time `json:"message_date"`
	MessageType        string    `json:"message_type"`
	// IsSender is true when the account itself sent the message.
	IsSender bool `json:"is_sender"`
}

// TableName implements Record.
func (DirectMessage) TableName() string { return TableDirectMessages }

// Row implements Record.
func (r DirectMessage) Row() []any {
	return []any{
		r.MessageID, r.UserID, r.ConversationIDHash, r.MessageLength,
		r.MessageDate, r.MessageType, r.IsSender,
	}
}

// EngagementMetric is a daily engagement snapshot, copied verbatim.
type EngagementMetric struct {
	UserID        string    `json:"user_id"`
	MetricDate    time.Time `json:"metric_date"`
	ProfileViews  int64     `json:"profile_views"`
	Reach         int64     `json:"reach"`
	Impressions   int64     `json:"impressions"`
	WebsiteClicks int64     `json:"website_clicks"`
}

// TableName implements Record.
func (EngagementMetric) TableName() string { return TableEngagementMetrics }

// Row implements Record.
func (r EngagementMetric) Row() []any {
	return []any{
		r.UserID, r.MetricDate, r.ProfileViews,
		r.Reach, r.Impressions, r.WebsiteClicks,
	}
}

// HashtagUsage aggregates every use of one (lowercased, hashed) hashtag.
type HashtagUsage struct {
	UserID      string    `json:"user_id"`
	HashtagHash string    `json:"hashtag_hash"`
	UsageCount  int       `json:"usage_count"`
	FirstUsed   time.Time `json:"first_used"`
	LastUsed    time.Time `json:"last_used"`
}

// TableName implements Record.
func (HashtagUsage) TableName() string { return TableHashtagUsage }

// Row implements Record.
func (r HashtagUsage) Row() []any {
	return []any{r.UserID, r.HashtagHash, r.UsageCount, r.FirstUsed, r.LastUsed}
}

// ActivityPattern counts activity in one (hour of day, day of week) bucket.
// DayOfWeek is 0 for Monday through 6 for Sunday.
type ActivityPattern struct {
	UserID       string `json:"user_id"`
	HourOfDay    int    `json:"hour_of_day"`
	DayOfWeek    int    `json:"day_of_week"`
	PostCount    int    `json:"post_count"`
	StoryCount   int    `json:"story_count"`
	CommentCount int    `json:"comment_count"`
	DMCount      int    `json:"dm_count"`
}

// TableName implements Record.
func (ActivityPattern) TableName() string { return TableActivityPatterns }

// Row implements Record.
func (r ActivityPattern) Row() []any {
	return []any{
		r.UserID, r.HourOfDay, r.DayOfWeek,
		r.PostCount, r.StoryCount, r.CommentCount, r.DMCount,
	}
}

// Total returns the sum of all four activity counts.
func (r ActivityPattern) Total() int {
	return r.PostCount + r.StoryCount + r.CommentCount + r.DMCount
}

// CountByTable returns how many records of each table are in records.
func CountByTable(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.TableName()]++
	}
	return counts
}
