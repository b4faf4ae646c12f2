package models

import "encoding/json"

// TeacherProfile identifies the teacher owning a snapshot export.
type TeacherProfile struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// ClassroomSnapshot is one denormalized export of a teacher's classroom data
// as produced by the external extraction pipeline. All fields are untrusted.
type ClassroomSnapshot struct {
	Teacher    TeacherProfile      `json:"teacher" validate:"required"`
	Classrooms []ClassroomWithData `json:"classrooms" validate:"required,dive"`
	ExportedAt string              `json:"exportedAt"`
	Source     string              `json:"source"`
}

// ClassroomWithData is a snapshot classroom node with nested rosters and work.
type ClassroomWithData struct {
	ExternalID   string               `json:"externalId" validate:"required"`
	Name         string               `json:"name" validate:"required"`
	Section      string               `json:"section"`
	TeacherEmail string               `json:"teacherEmail" validate:"required,email"`
	CourseState  string               `json:"courseState"`
	Students     []StudentSnapshot    `json:"students"`
	Assignments  []AssignmentSnapshot `json:"assignments"`
	Submissions  []SubmissionSnapshot `json:"submissions"`
}

// StudentSnapshot describes one roster entry inside a snapshot classroom.
type StudentSnapshot struct {
	ExternalID      string   `json:"externalId"`
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	JoinTime        string   `json:"joinTime"`
	SubmissionCount int      `json:"submissionCount"`
	OverallGrade    *float64 `json:"overallGrade,omitempty"`
}

// AssignmentSnapshot describes one coursework entry with denormalized stats.
type AssignmentSnapshot struct {
	ExternalID  string     `json:"externalId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	WorkType    string     `json:"workType"`
	Status      string     `json:"status"`
	DueDate     string     `json:"dueDate"`
	MaxScore    *float64   `json:"maxScore,omitempty"`
	MaxPoints   *float64   `json:"maxPoints,omitempty"`
	IsQuiz      bool       `json:"isQuiz"`
	Rubric      *Rubric    `json:"rubric,omitempty"`
	QuizData    *QuizData  `json:"quizData,omitempty"`
	Materials   []Material `json:"materials,omitempty"`
}

// Rubric carries optional rubric criteria attached to an assignment.
type Rubric struct {
	Title    string            `json:"title"`
	Criteria []RubricCriterion `json:"criteria"`
}

// RubricCriterion is a single rubric row.
type RubricCriterion struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	MaxPoints   float64 `json:"maxPoints"`
}

// QuizData mirrors the form metadata attached to quiz assignments.
type QuizData struct {
	FormID                string `json:"formId"`
	FormURL               string `json:"formUrl"`
	Title                 string `json:"title"`
	IsQuiz                bool   `json:"isQuiz"`
	TotalQuestions        int    `json:"totalQuestions"`
	TotalPoints           float64 `json:"totalPoints"`
	AutoGradableQuestions int    `json:"autoGradableQuestions"`
	ManualGradingRequired bool   `json:"manualGradingRequired"`
}

// MaterialKind discriminates the material tagged union.
type MaterialKind string

// Material kinds recognized by the classifier.
const (
	MaterialForm      MaterialKind = "form"
	MaterialDriveFile MaterialKind = "driveFile"
	MaterialLink      MaterialKind = "link"
	MaterialYouTube   MaterialKind = "youtube"
	MaterialUnknown   MaterialKind = "unknown"
)

// Material is a tagged union over the shapes Google attaches to coursework.
// Exactly one of the payload pointers is set for a recognized kind.
type Material struct {
	Kind      MaterialKind   `json:"kind"`
	Form      *FormMaterial  `json:"form,omitempty"`
	DriveFile *DriveMaterial `json:"driveFile,omitempty"`
	Link      *LinkMaterial  `json:"link,omitempty"`
}

// FormMaterial references a Google Form.
type FormMaterial struct {
	FormURL     string `json:"formUrl"`
	ResponseURL string `json:"responseUrl"`
	Title       string `json:"title"`
}

// DriveMaterial references a Drive file.
type DriveMaterial struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LinkMaterial references an arbitrary URL.
type LinkMaterial struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// UnmarshalJSON infers the material kind from whichever payload key is
// present, so raw extraction output without an explicit kind still maps onto
// the union.
func (m *Material) UnmarshalJSON(data []byte) error {
	type alias Material
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Material(raw)
	if m.Kind != "" {
		return nil
	}
	switch {
	case m.Form != nil:
		m.Kind = MaterialForm
	case m.DriveFile != nil:
		m.Kind = MaterialDriveFile
	case m.Link != nil:
		m.Kind = MaterialLink
	default:
		m.Kind = MaterialUnknown
	}
	return nil
}

// SubmissionSnapshot is one student submission as scraped from the source.
type SubmissionSnapshot struct {
	ExternalID         string               `json:"externalId"`
	AssignmentID       string               `json:"assignmentId"`
	StudentEmail       string               `json:"studentEmail"`
	StudentName        string               `json:"studentName"`
	Status             string               `json:"status"`
	SubmittedAt        string               `json:"submittedAt"`
	UpdatedAt          string               `json:"updatedAt"`
	StudentWork        string               `json:"studentWork"`
	Content            string               `json:"content"`
	Attachments        []AttachmentSnapshot `json:"attachments"`
	Grade              *GradeSnapshot       `json:"grade,omitempty"`
	ExtractedContent   *ExtractedContent    `json:"extractedContent,omitempty"`
	AIProcessingStatus string               `json:"aiProcessingStatus,omitempty"`
}

// ExtractedContent carries text pulled out of submission attachments upstream.
type ExtractedContent struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// AttachmentSnapshot is a raw attachment entry on a submission.
type AttachmentSnapshot struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	MimeType  string `json:"mimeType"`
	Thumbnail string `json:"thumbnailUrl"`
}

// GradeSnapshot is the grade sub-object embedded in a scraped submission.
type GradeSnapshot struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	GradedBy string  `json:"gradedBy"`
	GradedAt string  `json:"gradedAt"`
	Feedback string  `json:"feedback"`
}
