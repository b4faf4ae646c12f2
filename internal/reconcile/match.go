package reconcile

import (
	"sort"

	"github.com/codepet/classroom-sync-api/internal/models"
)

// MatchKind discriminates assignment match outcomes.
type MatchKind int

// Match outcomes, in decreasing confidence.
const (
	MatchNone MatchKind = iota
	MatchUnique
	MatchAmbiguous
)

// MatchResult reports how a candidate assignment was reconciled against the
// existing set. Ambiguity is explicit so the caller can warn or resolve
// rather than silently guessing.
type MatchResult struct {
	Kind         MatchKind
	Matched      models.Assignment
	Strategy     string
	CandidateIDs []string
}

// Match strategies, in fallback order.
const (
	StrategyExternalID     = "external_id"
	StrategyClassroomTitle = "classroom_title"
)

// matchAssignment resolves one candidate against the existing assignment
// indices. Strategies run in order: exact external ID, then the
// (classroom, title) composite key, then a title-only match that applies
// only when exactly one existing assignment in the classroom carries the
// title. Multiple title holders yield MatchAmbiguous with the candidate IDs
// sorted so the outcome is independent of map iteration order.
func matchAssignment(candidate models.Assignment, idx indices) MatchResult {
	if hit, ok := idx.assignmentsByExternalID[candidate.ExternalID]; ok {
		return MatchResult{Kind: MatchUnique, Matched: hit, Strategy: StrategyExternalID}
	}

	holders := idx.assignmentsByClassroomTitle[classroomTitleKey(candidate.ClassroomID, candidate.Title)]
	switch len(holders) {
	case 0:
		return MatchResult{Kind: MatchNone}
	case 1:
		// With title lookups scoped per classroom the composite-key and
		// unique-title strategies collapse onto the same index entry.
		return MatchResult{Kind: MatchUnique, Matched: holders[0], Strategy: StrategyClassroomTitle}
	default:
		ids := make([]string, 0, len(holders))
		for _, h := range holders {
			ids = append(ids, h.ID)
		}
		sort.Strings(ids)
		return MatchResult{Kind: MatchAmbiguous, CandidateIDs: ids}
	}
}
