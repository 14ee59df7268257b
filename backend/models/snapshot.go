package models

import "time"

// Bucket is one of the five SRS proficiency categories.
type Bucket string

const (
	BucketApprentice  Bucket = "apprentice"
	BucketGuru        Bucket = "guru"
	BucketMaster      Bucket = "master"
	BucketEnlightened Bucket = "enlightened"
	BucketBurned      Bucket = "burned"
)

// ClassifyStage maps a raw WaniKani SRS stage to its bucket.
// Stages 1-4 are apprentice, 5-6 guru, 7 master, 8 enlightened, 9 burned.
// Stage 0 (lesson queue) and anything out of range is unmapped.
func ClassifyStage(stage int) (Bucket, bool) {
	switch {
	case stage >= 1 && stage <= 4:
		return BucketApprentice, true
	case stage == 5 || stage == 6:
		return BucketGuru, true
	case stage == 7:
		return BucketMaster, true
	case stage == 8:
		return BucketEnlightened, true
	case stage == 9:
		return BucketBurned, true
	default:
		return "", false
	}
}

// BucketTotals holds per-bucket assignment counts for one fetch.
type BucketTotals map[Bucket]int

// Sum returns the total number of counted assignments.
func (t BucketTotals) Sum() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Snapshot is one day's aggregated totals plus the user level.
// JSON field names match the persisted wanikani_stats.json blob.
type Snapshot struct {
	Level       int       `json:"level"`
	Apprentice  int       `json:"apprentice"`
	Guru        int       `json:"guru"`
	Master      int       `json:"master"`
	Enlightened int       `json:"enlightened"`
	Burned      int       `json:"burned"`
	LastUpdated time.Time `json:"last_updated"`
}

// Total is the sum over the five buckets.
func (s Snapshot) Total() int {
	return s.Apprentice + s.Guru + s.Master + s.Enlightened + s.Burned
}

// NewSnapshot builds a snapshot from fetched totals and level.
func NewSnapshot(totals BucketTotals, level int, updatedAt time.Time) Snapshot {
	return Snapshot{
		Level:       level,
		Apprentice:  totals[BucketApprentice],
		Guru:        totals[BucketGuru],
		Master:      totals[BucketMaster],
		Enlightened: totals[BucketEnlightened],
		Burned:      totals[BucketBurned],
		LastUpdated: updatedAt,
	}
}

// Dataset is the full persisted history, keyed by YYYY-MM-DD date.
type Dataset map[string]Snapshot

// HistoryRow is one rendered line of the day-over-day table.
// Bucket and total cells are preformatted as "current (+delta)".
type HistoryRow struct {
	Date        string `json:"date"`
	Level       int    `json:"level"`
	Apprentice  string `json:"apprentice"`
	Guru        string `json:"guru"`
	Master      string `json:"master"`
	Enlightened string `json:"enlightened"`
	Burned      string `json:"burned"`
	Total       string `json:"total"`
}
