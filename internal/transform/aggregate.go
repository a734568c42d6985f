package transform

import (
	"time"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/pii"
)

// hashtagAccumulator groups hashtags by their digest. Groups are kept in
// first-seen order so that output is deterministic. An empty tag is a tag
// like any other: it is counted by the post's hashtag_count and grouped
// under the empty digest.
type hashtagAccumulator struct {
	userID string
	order  []string
	groups map[string]*model.HashtagUsage
}

func newHashtagAccumulator(userID string) *hashtagAccumulator {
	return &hashtagAccumulator{
		userID: userID,
		groups: make(map[string]*model.HashtagUsage),
	}
}

func (a *hashtagAccumulator) add(tag string, used time.Time) {
	digest := pii.HashHashtag(tag)
	usage, ok := a.groups[digest]
	if !ok {
		usage = &model.HashtagUsage{
			UserID:      a.userID,
			HashtagHash: digest,
			FirstUsed:   used,
			LastUsed:    used,
		}
		a.groups[digest] = usage
		a.order = append(a.order, digest)
	}

	usage.UsageCount++
	if used.Before(usage.FirstUsed) {
		usage.FirstUsed = used
	}
	if used.After(usage.LastUsed) {
		usage.LastUsed = used
	}
}

func (a *hashtagAccumulator) records() []model.Record {
	out := make([]model.Record, 0, len(a.order))
	for _, digest := range a.order {
		out = append(out, *a.groups[digest])
	}
	return out
}

// bucket is the composite key of the activity histogram.
type bucket struct {
	hour int
	day  int
}

// activityAccumulator counts activity per (hour of day, day of week). Only
// buckets that received at least one event exist.
type activityAccumulator struct {
	userID  string
	order   []bucket
	buckets map[bucket]*model.ActivityPattern
}

func newActivityAccumulator(userID string) *activityAccumulator {
	return &activityAccumulator{
		userID:  userID,
		buckets: make(map[bucket]*model.ActivityPattern),
	}
}

// add returns the pattern for t's bucket, creating it on first use. The
// caller increments the count for its entity type.
func (a *activityAccumulator) add(t time.Time) *model.ActivityPattern {
	key := bucket{hour: t.Hour(), day: DayOfWeek(t)}
	pattern, ok := a.buckets[key]
	if !ok {
		pattern = &model.ActivityPattern{
			UserID:    a.userID,
			HourOfDay: key.hour,
			DayOfWeek: key.day,
		}
		a.buckets[key] = pattern
		a.order = append(a.order, key)
	}
	return pattern
}

func (a *activityAccumulator) records() []model.Record {
	out := make([]model.Record, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.buckets[key])
	}
	return out
}

// DayOfWeek returns 0 for Monday through 6 for Sunday.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
