package reconcile

import "github.com/codepet/classroom-sync-api/internal/models"

// indices are read-only lookup maps built once per reconciliation pass over
// the existing entity set. The diff is computed as a pure function of
// (candidates, indices); nothing here is mutated after construction.
type indices struct {
	classroomsByExternalID map[string]models.Classroom
	classroomsByID         map[string]models.Classroom

	assignmentsByExternalID map[string]models.Assignment
	// keyed classroomID + "\x00" + title; nil slice values never occur.
	assignmentsByClassroomTitle map[string][]models.Assignment
	assignmentsByID             map[string]models.Assignment

	latestSubmissionsByLineage map[string]models.Submission
	enrollmentsByID            map[string]models.StudentEnrollment
}

func classroomTitleKey(classroomID, title string) string {
	return classroomID + "\x00" + title
}

func buildIndices(existing models.EntitySet) indices {
	idx := indices{
		classroomsByExternalID:      make(map[string]models.Classroom, len(existing.Classrooms)),
		classroomsByID:              make(map[string]models.Classroom, len(existing.Classrooms)),
		assignmentsByExternalID:     make(map[string]models.Assignment, len(existing.Assignments)),
		assignmentsByClassroomTitle: make(map[string][]models.Assignment),
		assignmentsByID:             make(map[string]models.Assignment, len(existing.Assignments)),
		latestSubmissionsByLineage:  make(map[string]models.Submission),
		enrollmentsByID:             make(map[string]models.StudentEnrollment, len(existing.Enrollments)),
	}

	for _, c := range existing.Classrooms {
		idx.classroomsByExternalID[c.ExternalID] = c
		idx.classroomsByID[c.ID] = c
	}

	for _, a := range existing.Assignments {
		idx.assignmentsByExternalID[a.ExternalID] = a
		idx.assignmentsByID[a.ID] = a
		key := classroomTitleKey(a.ClassroomID, a.Title)
		idx.assignmentsByClassroomTitle[key] = append(idx.assignmentsByClassroomTitle[key], a)
	}

	for _, s := range existing.Submissions {
		if s.IsLatest {
			idx.latestSubmissionsByLineage[s.LineageID] = s
		}
	}

	for _, e := range existing.Enrollments {
		idx.enrollmentsByID[e.ID] = e
	}

	return idx
}
