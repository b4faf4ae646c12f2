// Package grades derives grade records from snapshot grade sub-objects.
// Extraction is independent of the merge engine: candidates are produced
// per graded submission and resolved to concrete versioned records once
// reconciliation has decided which submission version is current.
package grades

import (
	"time"

	"github.com/codepet/classroom-sync-api/internal/identity"
	"github.com/codepet/classroom-sync-api/internal/models"
)

// Candidate normalizes an embedded grade sub-object into a candidate keyed
// to the submission lineage. Returns nil when the submission carries no
// grade. "system" graders are normalized to auto; manual grades are locked
// so later automated imports cannot overwrite them.
func Candidate(lineageID, classroomID, assignmentID, studentID string, raw *models.GradeSnapshot, gradedAt *time.Time) *models.GradeCandidate {
	if raw == nil {
		return nil
	}
	gradedBy := models.GradedBy(raw.GradedBy)
	switch gradedBy {
	case "system", "":
		gradedBy = models.GradedByAuto
	case models.GradedByAuto, models.GradedByManual, models.GradedByAI:
	default:
		gradedBy = models.GradedByManual
	}

	return &models.GradeCandidate{
		LineageID:    lineageID,
		ClassroomID:  classroomID,
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Score:        raw.Score,
		MaxScore:     raw.MaxScore,
		GradedBy:     gradedBy,
		IsLocked:     gradedBy == models.GradedByManual,
		Feedback:     raw.Feedback,
		GradedAt:     gradedAt,
	}
}

// Resolve turns grade candidates into concrete versioned Grade records.
// latestByLineage must map each lineage to the submission version that is
// current after the merge pass; existing grades provide the version floor
// and the lock/no-op checks. Only new versions are returned: a candidate
// identical to the current grade produces nothing, and a locked (manual)
// current grade is never displaced by an automated one.
func Resolve(candidates []models.GradeCandidate, latestByLineage map[string]models.Submission, existing []models.Grade) []models.Grade {
	latestGrades := make(map[string]models.Grade, len(existing))
	for _, g := range existing {
		if !g.IsLatest {
			continue
		}
		latestGrades[g.SubmissionID] = g
	}

	var out []models.Grade
	for _, c := range candidates {
		sub, ok := latestByLineage[c.LineageID]
		if !ok {
			// Grade references a lineage the merge pass never produced;
			// nothing to attach it to.
			continue
		}

		prior, hasPrior := latestGrades[c.LineageID]
		if hasPrior {
			if prior.IsLocked && c.GradedBy != models.GradedByManual {
				continue
			}
			if sameGrade(prior, c, sub.Version) {
				continue
			}
		}

		version := 1
		if hasPrior {
			version = prior.Version + 1
		}

		out = append(out, models.Grade{
			ID:                      identity.GradeID(c.LineageID, version),
			SubmissionID:            c.LineageID,
			AssignmentID:            c.AssignmentID,
			StudentID:               c.StudentID,
			ClassroomID:             c.ClassroomID,
			Score:                   c.Score,
			MaxScore:                c.MaxScore,
			Version:                 version,
			SubmissionVersionGraded: sub.Version,
			IsLatest:                true,
			GradedBy:                c.GradedBy,
			IsLocked:                c.IsLocked,
			Feedback:                c.Feedback,
			GradedAt:                c.GradedAt,
		})
	}
	return out
}

func sameGrade(prior models.Grade, c models.GradeCandidate, submissionVersion int) bool {
	return prior.Score == c.Score &&
		prior.MaxScore == c.MaxScore &&
		prior.GradedBy == c.GradedBy &&
		prior.Feedback == c.Feedback &&
		prior.SubmissionVersionGraded == submissionVersion
}
