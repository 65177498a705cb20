// Package scoring derives aggregate values from a score ledger.
package scoring

import "github.com/okian/logquest/internal/domain/model"

// TotalScore sums Score across records. It is recomputed on every call and
// never stored, so it cannot drift from the ledger.
func TotalScore(records []model.ActivityScoreRecord) int {
	total := 0
	for _, r := range records {
		total += r.Score
	}
	return total
}
