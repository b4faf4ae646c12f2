package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codepet/classroom-sync-api/internal/models"
)

func existingAssignment(id, classroomID, externalID, title string) models.Assignment {
	return models.Assignment{ID: id, ClassroomID: classroomID, ExternalID: externalID, Title: title}
}

func TestMatchAssignmentByExternalID(t *testing.T) {
	idx := buildIndices(models.EntitySet{Assignments: []models.Assignment{
		existingAssignment("x1", "room", "ext-1", "Homework"),
	}})

	match := matchAssignment(models.Assignment{ClassroomID: "room", ExternalID: "ext-1", Title: "Renamed"}, idx)
	assert.Equal(t, MatchUnique, match.Kind)
	assert.Equal(t, StrategyExternalID, match.Strategy)
	assert.Equal(t, "x1", match.Matched.ID)
}

func TestMatchAssignmentByClassroomTitle(t *testing.T) {
	idx := buildIndices(models.EntitySet{Assignments: []models.Assignment{
		existingAssignment("x1", "room", "ext-old", "Homework"),
	}})

	match := matchAssignment(models.Assignment{ClassroomID: "room", ExternalID: "ext-new", Title: "Homework"}, idx)
	assert.Equal(t, MatchUnique, match.Kind)
	assert.Equal(t, StrategyClassroomTitle, match.Strategy)
}

func TestMatchAssignmentTitleScopedToClassroom(t *testing.T) {
	idx := buildIndices(models.EntitySet{Assignments: []models.Assignment{
		existingAssignment("x1", "other-room", "ext-old", "Homework"),
	}})

	match := matchAssignment(models.Assignment{ClassroomID: "room", ExternalID: "ext-new", Title: "Homework"}, idx)
	assert.Equal(t, MatchNone, match.Kind)
}

func TestMatchAssignmentAmbiguous(t *testing.T) {
	idx := buildIndices(models.EntitySet{Assignments: []models.Assignment{
		existingAssignment("x2", "room", "ext-b", "Homework"),
		existingAssignment("x1", "room", "ext-a", "Homework"),
	}})

	match := matchAssignment(models.Assignment{ClassroomID: "room", ExternalID: "ext-new", Title: "Homework"}, idx)
	assert.Equal(t, MatchAmbiguous, match.Kind)
	assert.Equal(t, []string{"x1", "x2"}, match.CandidateIDs, "candidates sorted for deterministic output")
}
