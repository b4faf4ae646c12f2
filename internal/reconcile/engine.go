// Package reconcile computes the deterministic diff between a transformed
// snapshot and the persisted state for one teacher. The engine is pure: it
// performs no I/O, builds its lookup indices once per pass, and its output
// does not depend on the iteration order of the existing entity set.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/codepet/classroom-sync-api/internal/grades"
	"github.com/codepet/classroom-sync-api/internal/identity"
	"github.com/codepet/classroom-sync-api/internal/models"
)

// Engine computes merge diffs. It carries no state between passes.
type Engine struct{}

// NewEngine constructs an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Reconcile diffs candidates against existing and returns the records to
// create, update, and archive. The caller applies the result as one atomic
// unit of work per teacher; now stamps every touched record so a pass is
// reproducible given fixed inputs.
func (e *Engine) Reconcile(candidates models.CandidateSet, existing models.EntitySet, now time.Time) models.MergeResult {
	idx := buildIndices(existing)
	result := models.MergeResult{}

	candidates = remapAssignmentRefs(candidates, assignmentIDRemap(candidates.Assignments, idx))

	e.mergeClassrooms(&result, candidates.Classrooms, idx, now)
	e.mergeAssignments(&result, candidates.Assignments, idx, now)
	latestByLineage := e.mergeSubmissions(&result, candidates, idx, now)
	e.mergeEnrollments(&result, candidates, idx, now)

	result.ToCreate.Grades = grades.Resolve(candidates.Grades, latestByLineage, existing.Grades)

	sortResult(&result)
	return result
}

// mergeClassrooms matches by external ID only: a hit refreshes everything
// except the stable ID and creation time.
func (e *Engine) mergeClassrooms(result *models.MergeResult, candidates []models.Classroom, idx indices, now time.Time) {
	for _, candidate := range candidates {
		prior, ok := idx.classroomsByExternalID[candidate.ExternalID]
		if !ok {
			candidate.CreatedAt = now
			candidate.UpdatedAt = now
			result.ToCreate.Classrooms = append(result.ToCreate.Classrooms, candidate)
			continue
		}
		candidate.ID = prior.ID
		candidate.CreatedAt = prior.CreatedAt
		candidate.UpdatedAt = now
		result.ToUpdate.Classrooms = append(result.ToUpdate.Classrooms, candidate)
	}
}

// mergeAssignments runs the fallback matching chain. A fallback hit rewrites
// the stored external ID to the candidate's, so the next pass matches
// directly (self-healing). Ambiguous title matches degrade to a create and
// are surfaced as warnings so duplicate-assignment drift stays observable.
func (e *Engine) mergeAssignments(result *models.MergeResult, candidates []models.Assignment, idx indices, now time.Time) {
	for _, candidate := range candidates {
		match := matchAssignment(candidate, idx)
		switch match.Kind {
		case MatchUnique:
			prior := match.Matched
			candidate.ID = prior.ID
			candidate.CreatedAt = prior.CreatedAt
			candidate.UpdatedAt = now
			// candidate.ExternalID already carries the new external ID; on a
			// title-based match this is the self-healing rewrite.
			result.ToUpdate.Assignments = append(result.ToUpdate.Assignments, candidate)
		case MatchAmbiguous:
			result.Warnings = append(result.Warnings, models.MergeWarning{
				Code:         models.WarnAmbiguousAssignmentMatch,
				Message:      fmt.Sprintf("multiple existing assignments titled %q in classroom %s; creating a new record", candidate.Title, candidate.ClassroomID),
				EntityID:     candidate.ID,
				CandidateIDs: match.CandidateIDs,
			})
			fallthrough
		default:
			candidate.CreatedAt = now
			candidate.UpdatedAt = now
			result.ToCreate.Assignments = append(result.ToCreate.Assignments, candidate)
		}
	}
}

// assignmentIDRemap resolves matches ahead of the merge passes and maps each
// candidate's derived ID onto the stable ID it will keep. When an external ID
// drifts, every submission, grade, and classroom roster entry in the same
// snapshot still carries the ID derived from the drifted value; without the
// rewrite those lineages fork away from their history and reference an
// assignment record that never persists.
func assignmentIDRemap(candidates []models.Assignment, idx indices) map[string]string {
	var remap map[string]string
	for _, candidate := range candidates {
		match := matchAssignment(candidate, idx)
		if match.Kind != MatchUnique || match.Matched.ID == candidate.ID {
			continue
		}
		if remap == nil {
			remap = make(map[string]string)
		}
		remap[candidate.ID] = match.Matched.ID
	}
	return remap
}

// remapAssignmentRefs rewrites derived assignment references onto the stable
// IDs they resolved to and re-derives the lineage keys, so versions keep
// accruing on the original lineage. The input slices are left untouched.
func remapAssignmentRefs(candidates models.CandidateSet, remap map[string]string) models.CandidateSet {
	if len(remap) == 0 {
		return candidates
	}

	submissions := make([]models.Submission, len(candidates.Submissions))
	copy(submissions, candidates.Submissions)
	for i := range submissions {
		s := &submissions[i]
		stable, ok := remap[s.AssignmentID]
		if !ok {
			continue
		}
		s.AssignmentID = stable
		s.LineageID = identity.SubmissionLineageID(s.ClassroomID, stable, s.StudentID)
	}
	candidates.Submissions = submissions

	gradeCandidates := make([]models.GradeCandidate, len(candidates.Grades))
	copy(gradeCandidates, candidates.Grades)
	for i := range gradeCandidates {
		g := &gradeCandidates[i]
		stable, ok := remap[g.AssignmentID]
		if !ok {
			continue
		}
		g.AssignmentID = stable
		g.LineageID = identity.SubmissionLineageID(g.ClassroomID, stable, g.StudentID)
	}
	candidates.Grades = gradeCandidates

	classrooms := make([]models.Classroom, len(candidates.Classrooms))
	copy(classrooms, candidates.Classrooms)
	for i := range classrooms {
		c := &classrooms[i]
		rewritten := false
		ids := make([]string, len(c.AssignmentIDs))
		copy(ids, c.AssignmentIDs)
		for j, id := range ids {
			if stable, ok := remap[id]; ok {
				ids[j] = stable
				rewritten = true
			}
		}
		if rewritten {
			c.AssignmentIDs = ids
		}
	}
	candidates.Classrooms = classrooms

	return candidates
}

// mergeSubmissions matches by lineage key. Changed content or attachments
// produce a new version and flip the prior latest; unchanged content is a
// metadata-only update. The returned map carries the version that is current
// after this pass for every lineage seen, for grade resolution.
func (e *Engine) mergeSubmissions(result *models.MergeResult, candidates models.CandidateSet, idx indices, now time.Time) map[string]models.Submission {
	knownAssignments := make(map[string]struct{}, len(candidates.Assignments))
	for _, a := range candidates.Assignments {
		knownAssignments[a.ID] = struct{}{}
	}

	latestByLineage := make(map[string]models.Submission, len(candidates.Submissions))

	for _, candidate := range candidates.Submissions {
		if _, ok := knownAssignments[candidate.AssignmentID]; !ok {
			if _, ok := idx.assignmentsByID[candidate.AssignmentID]; !ok {
				result.Warnings = append(result.Warnings, models.MergeWarning{
					Code:     models.WarnOrphanSubmission,
					Message:  fmt.Sprintf("submission lineage %s references unknown assignment %s", candidate.LineageID, candidate.AssignmentID),
					EntityID: candidate.LineageID,
				})
			}
		}

		prior, ok := idx.latestSubmissionsByLineage[candidate.LineageID]
		if !ok {
			candidate.ID = identity.SubmissionVersionID(candidate.LineageID, 1)
			candidate.Version = 1
			candidate.IsLatest = true
			candidate.CreatedAt = now
			candidate.UpdatedAt = now
			result.ToCreate.Submissions = append(result.ToCreate.Submissions, candidate)
			latestByLineage[candidate.LineageID] = candidate
			continue
		}

		if candidate.Content == prior.Content && sameAttachments(candidate.Attachments, prior.Attachments) {
			// Nothing versionable changed; refresh metadata in place.
			updated := prior
			updated.Status = candidate.Status
			updated.StudentName = candidate.StudentName
			updated.SubmittedAt = candidate.SubmittedAt
			updated.UpdatedAt = now
			result.ToUpdate.Submissions = append(result.ToUpdate.Submissions, updated)
			latestByLineage[candidate.LineageID] = updated
			continue
		}

		next := candidate
		next.Version = prior.Version + 1
		next.ID = identity.SubmissionVersionID(next.LineageID, next.Version)
		next.PreviousVersionID = strPtr(prior.ID)
		next.IsLatest = true
		next.CreatedAt = now
		next.UpdatedAt = now
		result.ToCreate.Submissions = append(result.ToCreate.Submissions, next)

		demoted := prior
		demoted.IsLatest = false
		demoted.UpdatedAt = now
		result.ToUpdate.Submissions = append(result.ToUpdate.Submissions, demoted)

		latestByLineage[next.LineageID] = next
	}

	return latestByLineage
}

// mergeEnrollments creates and updates roster entries and archives the ones
// confirmed absent. Archival only applies to enrollments whose classroom is
// present in the snapshot: a classroom missing wholesale is not confirmation
// that its students left.
func (e *Engine) mergeEnrollments(result *models.MergeResult, candidates models.CandidateSet, idx indices, now time.Time) {
	snapshotClassrooms := make(map[string]struct{}, len(candidates.Classrooms))
	for _, c := range candidates.Classrooms {
		snapshotClassrooms[c.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(candidates.Enrollments))
	for _, candidate := range candidates.Enrollments {
		seen[candidate.ID] = struct{}{}

		prior, ok := idx.enrollmentsByID[candidate.ID]
		if !ok {
			candidate.CreatedAt = now
			candidate.UpdatedAt = now
			result.ToCreate.Enrollments = append(result.ToCreate.Enrollments, candidate)
			continue
		}
		candidate.CreatedAt = prior.CreatedAt
		if candidate.EnrolledAt == nil {
			candidate.EnrolledAt = prior.EnrolledAt
		}
		// A student present again after removal re-activates.
		candidate.Status = models.EnrollmentStatusActive
		candidate.RemovedAt = nil
		candidate.UpdatedAt = now
		result.ToUpdate.Enrollments = append(result.ToUpdate.Enrollments, candidate)
	}

	for id, prior := range idx.enrollmentsByID {
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := snapshotClassrooms[prior.ClassroomID]; !ok {
			continue
		}
		if prior.Status != models.EnrollmentStatusActive {
			continue
		}
		result.ToArchive.EnrollmentIDs = append(result.ToArchive.EnrollmentIDs, id)
	}
}

func sameAttachments(a, b []models.Attachment) bool {
	if len(a) != len(b) {
		return false
	}
	// Order-independent content equality via canonical keys.
	counts := make(map[string]int, len(a))
	for _, att := range a {
		counts[attachmentKey(att)]++
	}
	for _, att := range b {
		counts[attachmentKey(att)]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

func attachmentKey(a models.Attachment) string {
	return a.Type + "\x00" + a.ID + "\x00" + a.Title + "\x00" + a.URL
}

// sortResult orders every slice by ID so output is stable regardless of map
// iteration order during the pass.
func sortResult(result *models.MergeResult) {
	sort.Slice(result.ToCreate.Classrooms, func(i, j int) bool {
		return result.ToCreate.Classrooms[i].ID < result.ToCreate.Classrooms[j].ID
	})
	sort.Slice(result.ToUpdate.Classrooms, func(i, j int) bool {
		return result.ToUpdate.Classrooms[i].ID < result.ToUpdate.Classrooms[j].ID
	})
	sort.Slice(result.ToCreate.Assignments, func(i, j int) bool {
		return result.ToCreate.Assignments[i].ID < result.ToCreate.Assignments[j].ID
	})
	sort.Slice(result.ToUpdate.Assignments, func(i, j int) bool {
		return result.ToUpdate.Assignments[i].ID < result.ToUpdate.Assignments[j].ID
	})
	sort.Slice(result.ToCreate.Submissions, func(i, j int) bool {
		return result.ToCreate.Submissions[i].ID < result.ToCreate.Submissions[j].ID
	})
	sort.Slice(result.ToUpdate.Submissions, func(i, j int) bool {
		return result.ToUpdate.Submissions[i].ID < result.ToUpdate.Submissions[j].ID
	})
	sort.Slice(result.ToCreate.Enrollments, func(i, j int) bool {
		return result.ToCreate.Enrollments[i].ID < result.ToCreate.Enrollments[j].ID
	})
	sort.Slice(result.ToUpdate.Enrollments, func(i, j int) bool {
		return result.ToUpdate.Enrollments[i].ID < result.ToUpdate.Enrollments[j].ID
	})
	sort.Slice(result.ToCreate.Grades, func(i, j int) bool {
		return result.ToCreate.Grades[i].ID < result.ToCreate.Grades[j].ID
	})
	sort.Strings(result.ToArchive.SubmissionIDs)
	sort.Strings(result.ToArchive.EnrollmentIDs)
}

func strPtr(s string) *string { return &s }
