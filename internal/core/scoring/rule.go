// Package scoring holds the single scoring rule shared by the incremental
// scorer and the batch leaderboard generator. Both call sites must go
// through this package so the two paths can never drift apart.
package scoring

import (
	"sort"

	"gitlab.com/cse-2025.net/internal/domain"
)

// ProblemPoints builds the problemID -> maximum points lookup from a
// contest's problem list.
func ProblemPoints(problems []domain.ContestProblem) map[string]int {
	points := make(map[string]int, len(problems))
	for _, p := range problems {
		points[p.ID] = p.Points
	}
	return points
}

// AttemptScore is the value one graded attempt contributes: the verdict's
// points when accepted, falling back to the problem's maximum when the
// judge reported no point value, and zero for anything not accepted.
func AttemptScore(problemPoints map[string]int, sub *domain.Submission) int {
	if !sub.Status.Accepted() {
		return 0
	}
	if sub.Points != nil {
		return *sub.Points
	}
	return problemPoints[sub.ProblemID]
}

// BestScores folds a user's submissions into the per-problem best accepted
// score. Problems with attempts but no accepted submission appear with a
// zero entry so attempted-set derivation sees them.
func BestScores(problemPoints map[string]int, subs []*domain.Submission) map[string]int {
	best := make(map[string]int)
	for _, sub := range subs {
		score := AttemptScore(problemPoints, sub)
		if current, ok := best[sub.ProblemID]; !ok || score > current {
			best[sub.ProblemID] = score
		}
	}
	return best
}

// TotalScore sums the per-problem bests.
func TotalScore(best map[string]int) int {
	total := 0
	for _, score := range best {
		total += score
	}
	return total
}

// SolvedProblems lists the problem ids whose best score is positive,
// sorted for deterministic storage.
func SolvedProblems(best map[string]int) []string {
	solved := make([]string, 0, len(best))
	for id, score := range best {
		if score > 0 {
			solved = append(solved, id)
		}
	}
	sort.Strings(solved)
	return solved
}

// AttemptedProblems lists every problem id with at least one submission,
// regardless of verdict, sorted for deterministic storage.
func AttemptedProblems(subs []*domain.Submission) []string {
	seen := make(map[string]struct{})
	attempted := make([]string, 0)
	for _, sub := range subs {
		if _, ok := seen[sub.ProblemID]; ok {
			continue
		}
		seen[sub.ProblemID] = struct{}{}
		attempted = append(attempted, sub.ProblemID)
	}
	sort.Strings(attempted)
	return attempted
}

// TotalPenalty sums the penalty recorded on each submission.
func TotalPenalty(subs []*domain.Submission) int {
	total := 0
	for _, sub := range subs {
		total += sub.Penalty
	}
	return total
}
