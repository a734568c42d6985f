package proof

import (
	"fmt"
	"time"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/pii"
)

// Generator builds proofs. The only non-deterministic proof field is the
// generation timestamp, which comes from the generator's clock.
type Generator struct {
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for the proof generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator returns a Generator using the system clock unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate assembles the proof for export.
func (g *Generator) Generate(export *model.Export) (*model.Proof, error) {
	if export == nil {
		return nil, ErrNilExport
	}

	hashes, err := ContentHashes(export)
	if err != nil {
		return nil, fmt.Errorf("failed to compute content hashes: %w", err)
	}

	profile := export.Profile
	return &model.Proof{
		UserID:                   export.UserID,
		UsernameHash:             pii.HashUsername(profile.Username),
		ProofType:                model.ProofType,
		DataExportTimestamp:      export.DataExportTimestamp,
		ProofGenerationTimestamp: g.now().UTC().Format(time.RFC3339Nano),
		TotalPosts:               len(export.Posts),
		TotalStories:             len(export.Stories),
		TotalComments:            len(export.Comments),
		TotalDMs:                 len(export.DirectMessages),
		TotalEngagementMetrics:   len(export.EngagementMetrics),
		FollowerCount:            profile.FollowerCount,
		FollowingCount:           profile.FollowingCount,
		IsVerified:               profile.IsVerified,
		IsPrivate:                profile.IsPrivate,
		ContentHashes:            hashes,
		ConfidenceScore:          ConfidenceScore(export),
		VerificationMethod:       VerificationMethod(export),
	}, nil
}

// ContentHashes computes the five integrity digests of export. Each digest
// covers a fixed field subset of one entity family, in export order.
func ContentHashes(export *model.Export) (model.ContentHashes, error) {
	var (
		hashes model.ContentHashes
		err    error
	)

	p := export.Profile
	hashes.Profile, err = digest(map[string]any{
		"username":        p.Username,
		"full_name":       p.FullName,
		"follower_count":  p.FollowerCount,
		"following_count": p.FollowingCount,
		"post_count":      p.PostCount,
		"is_verified":     p.IsVerified,
		"is_private":      p.IsPrivate,
	})
	if err != nil {
		return model.ContentHashes{}, err
	}

	posts := make([]map[string]any, len(export.Posts))
	for i, post := range export.Posts {
		posts[i] = map[string]any{
			"post_id":       post.PostID,
			"timestamp":     post.Timestamp,
			"like_count":    post.LikeCount,
			"comment_count": post.CommentCount,
			"media_count":   len(post.Media),
		}
	}
	if hashes.Posts, err = digest(posts); err != nil {
		return model.ContentHashes{}, err
	}

	stories := make([]map[string]any, len(export.Stories))
	for i, s := range export.Stories {
		stories[i] = map[string]any{
			"story_id":   s.StoryID,
			"timestamp":  s.Timestamp,
			"view_count": s.ViewCount,
			"media_type": s.MediaType,
		}
	}
	if hashes.Stories, err = digest(stories); err != nil {
		return model.ContentHashes{}, err
	}

	comments := make([]map[string]any, len(export.Comments))
	for i, c := range export.Comments {
		comments[i] = map[string]any{
			"comment_id": c.CommentID,
			"post_id":    c.PostID,
			"timestamp":  c.Timestamp,
			"like_count": c.LikeCount,
		}
	}
	if hashes.Comments, err = digest(comments); err != nil {
		return model.ContentHashes{}, err
	}

	dms := make([]map[string]any, len(export.DirectMessages))
	for i, dm := range export.DirectMessages {
		dms[i] = map[string]any{
			"message_id":      dm.MessageID,
			"conversation_id": dm.ConversationID,
			"timestamp":       dm.Timestamp,
			"message_type":    dm.MessageType,
		}
	}
	if hashes.DMs, err = digest(dms); err != nil {
		return model.ContentHashes{}, err
	}

	return hashes, nil
}
