package model

// ProofType labels every proof produced by this refiner.
const ProofType = "instagram_data_export"

// VerificationMethod classifies how an export was most likely obtained.
type VerificationMethod string

// Verification methods, in rule-priority order.
const (
	MethodOfficialDataExport      VerificationMethod = "official_data_export"
	MethodAPIScraping             VerificationMethod = "api_scraping"
	MethodComprehensiveDataExport VerificationMethod = "comprehensive_data_export"
	MethodManualVerification      VerificationMethod = "manual_verification"
)

// String returns the label.
func (m VerificationMethod) String() string {
	return string(m)
}

// ContentHashes are the integrity digests over the raw export, one per
// entity family.
type ContentHashes struct {
	Profile  string `json:"profile_hash"`
	Posts    string `json:"posts_hash"`
	Stories  string `json:"stories_hash"`
	Comments string `json:"comments_hash"`
	DMs      string `json:"dms_hash"`
}

// Proof attests to the authenticity, completeness and provenance of one raw
// export without revealing its content. A proof is immutable once generated.
type Proof struct {
	UserID       string `json:"user_id"`
	UsernameHash string `json:"username_hash"`
	ProofType    string `json:"proof_type"`

	DataExportTimestamp      string `json:"data_export_timestamp"`
	ProofGenerationTimestamp string `json:"proof_generation_timestamp"`

	TotalPosts             int `json:"total_posts"`
	TotalStories           int `json:"total_stories"`
	TotalComments          int `json:"total_comments"`
	TotalDMs               int `json:"total_dms"`
	TotalEngagementMetrics int `json:"total_engagement_metrics"`

	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	IsVerified     bool  `json:"is_verified"`
	IsPrivate      bool  `json:"is_private"`

	ContentHashes

	// ConfidenceScore is in [0, 1].
	ConfidenceScore    float64            `json:"confidence_score"`
	VerificationMethod VerificationMethod `json:"verification_method"`
}

// Map returns the proof as a flat key-value structure. Serializing the map with
// encoding/json yields keys in sorted order.
func (p *Proof) Map() map[string]any {
	return map[string]any{
		"user_id":                    p.UserID,
		"username_hash":              p.UsernameHash,
		"proof_type":                 p.ProofType,
		"data_export_timestamp":      p.DataExportTimestamp,
		"proof_generation_timestamp": p.ProofGenerationTimestamp,
		"total_posts":                p.TotalPosts,
		"total_stories":              p.TotalStories,
		"total_comments":             p.TotalComments,
		"total_dms":                  p.TotalDMs,
		"total_engagement_metrics":   p.TotalEngagementMetrics,
		"follower_count":             p.FollowerCount,
		"following_count":            p.FollowingCount,
		"is_verified":                p.IsVerified,
		"is_private":                 p.IsPrivate,
		"profile_hash":               p.Profile,
		"posts_hash":                 p.Posts,
		"stories_hash":               p.Stories,
		"comments_hash":              p.Comments,
		"dms_hash":                   p.DMs,
		"confidence_score":           p.ConfidenceScore,
		"verification_method":        string(p.VerificationMethod),
	}
}
