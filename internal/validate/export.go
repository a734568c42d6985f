package validate

import (
	"github.com/nao1215/refiner/internal/model"
)

// Export validates doc and returns the typed export. When anything is wrong
// it returns a *ValidationError listing every violation, and no export.
func Export(doc any) (*model.Export, error) {
	c := &checker{}

	root, ok := doc.(map[string]any)
	if !ok {
		c.fail("$", "document must be an object, got %s", typeName(doc))
		return nil, &ValidationError{Violations: c.violations}
	}

	export := &model.Export{
		UserID:              c.requiredString(root, "user_id", ""),
		DataExportTimestamp: c.requiredString(root, "data_export_timestamp", ""),
		Posts:               make([]model.ExportPost, 0),
		Stories:             make([]model.ExportStory, 0),
		Comments:            make([]model.ExportComment, 0),
		DirectMessages:      make([]model.ExportDirectMessage, 0),
		EngagementMetrics:   make([]model.Engagement, 0),
	}

	if profile, ok := c.object(root, "profile", ""); ok {
		export.Profile = c.profile(profile, "profile")
	}

	for i, v := range c.array(root, "posts", "", false) {
		path := index("posts", i)
		if obj, ok := c.element(v, path); ok {
			export.Posts = append(export.Posts, c.post(obj, path))
		}
	}
	for i, v := range c.array(root, "stories", "", false) {
		path := index("stories", i)
		if obj, ok := c.element(v, path); ok {
			export.Stories = append(export.Stories, c.story(obj, path))
		}
	}
	for i, v := range c.array(root, "comments", "", false) {
		path := index("comments", i)
		if obj, ok := c.element(v, path); ok {
			export.Comments = append(export.Comments, c.comment(obj, path))
		}
	}
	for i, v := range c.array(root, "direct_messages", "", false) {
		path := index("direct_messages", i)
		if obj, ok := c.element(v, path); ok {
			export.DirectMessages = append(export.DirectMessages, c.directMessage(obj, path))
		}
	}
	for i, v := range c.array(root, "engagement_metrics", "", false) {
		path := index("engagement_metrics", i)
		if obj, ok := c.element(v, path); ok {
			export.EngagementMetrics = append(export.EngagementMetrics, c.engagement(obj, path))
		}
	}

	if len(c.violations) > 0 {
		return nil, &ValidationError{Violations: c.violations}
	}
	return export, nil
}

func (c *checker) profile(obj map[string]any, path string) model.Profile {
	return model.Profile{
		Username:       c.requiredString(obj, "username", path),
		FullName:       c.requiredString(obj, "full_name", path),
		Bio:            c.optionalString(obj, "bio", path),
		FollowerCount:  c.requiredCount(obj, "follower_count", path),
		FollowingCount: c.requiredCount(obj, "following_count", path),
		PostCount:      c.requiredCount(obj, "post_count", path),
		IsVerified:     c.optionalBool(obj, "is_verified", path),
		IsPrivate:      c.optionalBool(obj, "is_private", path),
		ProfilePicURL:  c.optionalString(obj, "profile_pic_url", path),
	}
}

func (c *checker) post(obj map[string]any, path string) model.ExportPost {
	post := model.ExportPost{
		PostID:       c.requiredString(obj, "post_id", path),
		Caption:      c.optionalString(obj, "caption", path),
		Timestamp:    c.requiredString(obj, "timestamp", path),
		LikeCount:    c.requiredCount(obj, "like_count", path),
		CommentCount: c.requiredCount(obj, "comment_count", path),
		Location:     c.optionalString(obj, "location", path),
		Media:        make([]model.PostMedia, 0),
		Hashtags:     make([]string, 0),
	}

	mediaPath := join(path, "media")
	for i, v := range c.array(obj, "media", path, true) {
		itemPath := index(mediaPath, i)
		item, ok := c.element(v, itemPath)
		if !ok {
			continue
		}
		post.Media = append(post.Media, model.PostMedia{
			MediaType:    c.requiredString(item, "media_type", itemPath),
			URL:          c.requiredString(item, "url", itemPath),
			ThumbnailURL: c.optionalString(item, "thumbnail_url", itemPath),
		})
	}

	tagPath := join(path, "hashtags")
	for i, v := range c.array(obj, "hashtags", path, false) {
		tag, ok := v.(string)
		if !ok {
			c.fail(index(tagPath, i), "must be a string, got %s", typeName(v))
			continue
		}
		post.Hashtags = append(post.Hashtags, tag)
	}

	return post
}

func (c *checker) story(obj map[string]any, path string) model.ExportStory {
	return model.ExportStory{
		StoryID:   c.requiredString(obj, "story_id", path),
		Timestamp: c.requiredString(obj, "timestamp", path),
		MediaType: c.requiredString(obj, "media_type", path),
		ViewCount: c.requiredCount(obj, "view_count", path),
		MediaURL:  c.requiredString(obj, "media_url", path),
	}
}

func (c *checker) comment(obj map[string]any, path string) model.ExportComment {
	return model.ExportComment{
		CommentID:      c.requiredString(obj, "comment_id", path),
		PostID:         c.requiredString(obj, "post_id", path),
		Text:           c.requiredString(obj, "text", path),
		Timestamp:      c.requiredString(obj, "timestamp", path),
		LikeCount:      c.optionalCount(obj, "like_count", path),
		AuthorUsername: c.requiredString(obj, "author_username", path),
	}
}

func (c *checker) directMessage(obj map[string]any, path string) model.ExportDirectMessage {
	return model.ExportDirectMessage{
		MessageID:         c.requiredString(obj, "message_id", path),
		ConversationID:    c.requiredString(obj, "conversation_id", path),
		SenderUsername:    c.requiredString(obj, "sender_username", path),
		RecipientUsername: c.requiredString(obj, "recipient_username", path),
		MessageText:       c.optionalString(obj, "message_text", path),
		Timestamp:         c.requiredString(obj, "timestamp", path),
		MessageType:       c.requiredString(obj, "message_type", path),
	}
}

func (c *checker) engagement(obj map[string]any, path string) model.Engagement {
	return model.Engagement{
		Date:          c.requiredString(obj, "date", path),
		ProfileViews:  c.requiredCount(obj, "profile_views", path),
		Reach:         c.requiredCount(obj, "reach", path),
		Impressions:   c.requiredCount(obj, "impressions", path),
		WebsiteClicks: c.optionalCount(obj, "website_clicks", path),
	}
}
