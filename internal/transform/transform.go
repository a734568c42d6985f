package transform

import (
	"fmt"
	"time"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/pii"
	"github.com/nao1215/refiner/internal/timestamp"
)

// Transformer converts validated exports into analytic records.
// The zero value is ready to use; it holds no state between calls.
type Transformer struct{}

// New returns a Transformer.
func New() *Transformer {
	return &Transformer{}
}

// Transform returns the analytic records for export, in this order: the
// user profile, each post followed by its media, stories, comments, direct
// messages, engagement metrics, hashtag usage and activity patterns.
//
// A timestamp that cannot be parsed aborts the whole transformation and no
// records are returned. The error is a *timestamp.MalformedError naming the
// offending field.
func (t *Transformer) Transform(export *model.Export) ([]model.Record, error) {
	if export == nil {
		return nil, ErrNilExport
	}

	exportDate, err := timestamp.ParseField("data_export_timestamp", export.DataExportTimestamp)
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, recordCapacity(export))
	records = append(records, userProfile(export, exportDate))

	activity := newActivityAccumulator(export.UserID)
	hashtags := newHashtagAccumulator(export.UserID)

	for i, p := range export.Posts {
		postDate, err := timestamp.ParseField(fmt.Sprintf("posts[%d].timestamp", i), p.Timestamp)
		if err != nil {
			return nil, err
		}
		records = append(records, post(export, p, postDate))
		for _, m := range p.Media {
			records = append(records, model.Media{PostID: p.PostID, MediaType: m.MediaType})
		}
		for _, tag := range p.Hashtags {
			hashtags.add(tag, postDate)
		}
		activity.add(postDate).PostCount++
	}

	for i, s := range export.Stories {
		storyDate, err := timestamp.ParseField(fmt.Sprintf("stories[%d].timestamp", i), s.Timestamp)
		if err != nil {
			return nil, err
		}
		records = append(records, model.Story{
			StoryID:   s.StoryID,
			UserID:    export.UserID,
			StoryDate: storyDate,
			MediaType: s.MediaType,
			ViewCount: s.ViewCount,
		})
		activity.add(storyDate).StoryCount++
	}

	for i, c := range export.Comments {
		commentDate, err := timestamp.ParseField(fmt.Sprintf("comments[%d].timestamp", i), c.Timestamp)
		if err != nil {
			return nil, err
		}
		records = append(records, model.Comment{
			CommentID:          c.CommentID,
			UserID:             export.UserID,
			PostID:             c.PostID,
			CommentLength:      pii.TextLength(c.Text),
			CommentDate:        commentDate,
			LikeCount:          c.LikeCount,
			AuthorUsernameHash: pii.HashUsername(c.AuthorUsername),
		})
		activity.add(commentDate).CommentCount++
	}

	for i, dm := range export.DirectMessages {
		messageDate, err := timestamp.ParseField(fmt.Sprintf("direct_messages[%d].timestamp", i), dm.Timestamp)
		if err != nil {
			return nil, err
		}
		records = append(records, model.DirectMessage{
			MessageID:          dm.MessageID,
			UserID:             export.UserID,
			ConversationIDHash: pii.HashText(dm.ConversationID),
			MessageLength:      pii.TextLength(dm.MessageText),
			MessageDate:        messageDate,
			MessageType:        dm.MessageType,
			// Compared in clear text before either side is hashed.
			IsSender: dm.SenderUsername == export.Profile.Username,
		})
		activity.add(messageDate).DMCount++
	}

	for i, e := range export.EngagementMetrics {
		metricDate, err := timestamp.ParseField(fmt.Sprintf("engagement_metrics[%d].date", i), e.Date)
		if err != nil {
			return nil, err
		}
		records = append(records, model.EngagementMetric{
			UserID:        export.UserID,
			MetricDate:    metricDate,
			ProfileViews:  e.ProfileViews,
			Reach:         e.Reach,
			Impressions:   e.Impressions,
			WebsiteClicks: e.WebsiteClicks,
		})
	}

	records = append(records, hashtags.records()...)
	records = append(records, activity.records()...)
	return records, nil
}

func userProfile(export *model.Export, exportDate time.Time) model.UserProfile {
	profile := export.Profile
	bio := pii.AnalyzeBio(profile.Bio)

	return model.UserProfile{
		UserID:         export.UserID,
		UsernameHash:   pii.HashUsername(profile.Username),
		FullNameHash:   pii.HashText(profile.FullName),
		BioLength:      bio.Length,
		BioWordCount:   bio.WordCount,
		BioHasURL:      bio.HasURL,
		BioHasEmail:    bio.HasEmail,
		BioHasHashtags: bio.HasHashtags,
		FollowerCount:  profile.FollowerCount,
		FollowingCount: profile.FollowingCount,
		PostCount:      profile.PostCount,
		IsVerified:     profile.IsVerified,
		IsPrivate:      profile.IsPrivate,
		DataExportDate: exportDate,
	}
}

func post(export *model.Export, p model.ExportPost, postDate time.Time) model.Post {
	return model.Post{
		PostID:         p.PostID,
		UserID:         export.UserID,
		CaptionLength:  pii.TextLength(p.Caption),
		PostDate:       postDate,
		LikeCount:      p.LikeCount,
		CommentCount:   p.CommentCount,
		MediaCount:     len(p.Media),
		HasLocation:    p.Location != "",
		HashtagCount:   len(p.Hashtags),
		EngagementRate: EngagementRate(p.LikeCount, p.CommentCount, export.Profile.FollowerCount),
	}
}

// EngagementRate returns (likes + comments) / followers * 100, or 0 when the
// account has no followers. The denominator is always the account's current
// follower count, whatever the age of the post.
func EngagementRate(likes, comments, followers int64) float64 {
	if followers <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(followers) * 100
}

func recordCapacity(export *model.Export) int {
	n := 1 + len(export.Stories) + len(export.Comments) +
		len(export.DirectMessages) + len(export.EngagementMetrics)
	for _, p := range export.Posts {
		n += 1 + len(p.Media)
	}
	return n
}
