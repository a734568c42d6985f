package proof

import (
	"fmt"
	"math"
	"strings"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/pii"
)

// Mismatch is one proof field that disagrees with the recomputed value.
type Mismatch struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// VerificationError lists every mismatch found by Verify.
type VerificationError struct {
	Mismatches []Mismatch
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	fields := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		fields[i] = m.Field
	}
	return fmt.Sprintf("%s: %s", ErrMismatch, strings.Join(fields, ", "))
}

// Is reports whether target is ErrMismatch.
func (e *VerificationError) Is(target error) bool {
	return target == ErrMismatch
}

// confidenceTolerance absorbs float summation error in stored scores.
const confidenceTolerance = 1e-9

// Verify recomputes every derived field of p from export and returns a
// *VerificationError when any of them differ. The generation timestamp is
// not checked.
func Verify(export *model.Export, p *model.Proof) error {
	if export == nil || p == nil {
		return ErrNilExport
	}

	want, err := NewGenerator().Generate(export)
	if err != nil {
		return err
	}

	var mismatches []Mismatch
	check := func(field string, expected, actual any) {
		e, a := fmt.Sprint(expected), fmt.Sprint(actual)
		if e != a {
			mismatches = append(mismatches, Mismatch{Field: field, Expected: e, Actual: a})
		}
	}

	check("user_id", want.UserID, p.UserID)
	// Earlier refiners hashed the username without case folding.
	if p.UsernameHash != want.UsernameHash && p.UsernameHash != pii.HashText(export.Profile.Username) {
		check("username_hash", want.UsernameHash, p.UsernameHash)
	}
	check("data_export_timestamp", want.DataExportTimestamp, p.DataExportTimestamp)
	check("total_posts", want.TotalPosts, p.TotalPosts)
	check("total_stories", want.TotalStories, p.TotalStories)
	check("total_comments", want.TotalComments, p.TotalComments)
	check("total_dms", want.TotalDMs, p.TotalDMs)
	// total_engagement_metrics is absent from proofs issued by earlier refiners.
	check("follower_count", want.FollowerCount, p.FollowerCount)
	check("following_count", want.FollowingCount, p.FollowingCount)
	check("is_verified", want.IsVerified, p.IsVerified)
	check("is_private", want.IsPrivate, p.IsPrivate)
	check("profile_hash", want.Profile, p.Profile)
	check("posts_hash", want.Posts, p.Posts)
	check("stories_hash", want.Stories, p.Stories)
	check("comments_hash", want.Comments, p.Comments)
	check("dms_hash", want.DMs, p.DMs)
	// Earlier refiners summed float weights, giving 0.6000000000000001
	// where this one gives 0.6.
	if math.Abs(want.ConfidenceScore-p.ConfidenceScore) > confidenceTolerance {
		check("confidence_score", want.ConfidenceScore, p.ConfidenceScore)
	}
	check("verification_method", want.VerificationMethod, p.VerificationMethod)

	if len(mismatches) > 0 {
		return &VerificationError{Mismatches: mismatches}
	}
	return nil
}
