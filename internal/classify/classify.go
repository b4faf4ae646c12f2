// Package classify infers platform, content type, and grading approach for
// an assignment from its materials and metadata. Classification is a pure
// function over the assignment record; no external calls, no side effects.
package classify

import (
	"strings"

	"github.com/lib/pq"

	"github.com/codepet/classroom-sync-api/internal/models"
)

// DefaultConfidence is the placeholder score attached to every heuristic
// result. The classifier is rule-based, not probabilistic; the value exists
// so downstream consumers have a slot for a calibrated model later.
const DefaultConfidence = 0.85

// Work types carried over from the source platform.
const (
	WorkTypeMultipleChoice = "MULTIPLE_CHOICE_QUESTION"
	WorkTypeShortAnswer    = "SHORT_ANSWER_QUESTION"
)

var codingKeywords = []string{
	"karel", "function", "algorithm", "programming", "code", "coding", "program",
}

var codeHostingDomains = []string{
	"github.com", "codehs.com", "repl.it",
}

// Classify derives the classification for one snapshot assignment. Rules are
// priority-ordered; the first match wins at each stage.
func Classify(a models.AssignmentSnapshot) models.Classification {
	platform := detectPlatform(a.Materials)
	contentType := detectContentType(a, platform)
	approach := detectGradingApproach(platform, contentType)

	return models.Classification{
		Platform:        platform,
		ContentType:     contentType,
		GradingApproach: approach,
		Tags:            pq.StringArray(collectTags(a, platform, contentType)),
		Confidence:      DefaultConfidence,
	}
}

func detectPlatform(materials []models.Material) models.Platform {
	for _, m := range materials {
		if m.Kind == models.MaterialForm {
			return models.PlatformGoogleForm
		}
	}
	for _, m := range materials {
		if m.Kind == models.MaterialDriveFile {
			return models.PlatformGoogleDocs
		}
	}
	for _, m := range materials {
		if m.Kind != models.MaterialLink || m.Link == nil {
			continue
		}
		url := strings.ToLower(m.Link.URL)
		for _, domain := range codeHostingDomains {
			if strings.Contains(url, domain) {
				return models.PlatformExternalLink
			}
		}
	}
	return models.PlatformGoogleClassroom
}

func detectContentType(a models.AssignmentSnapshot, platform models.Platform) models.ContentType {
	haystack := strings.ToLower(a.Title + " " + a.Description)
	for _, kw := range codingKeywords {
		if strings.Contains(haystack, kw) {
			return models.ContentTypeCode
		}
	}
	switch a.WorkType {
	case WorkTypeMultipleChoice:
		return models.ContentTypeChoice
	case WorkTypeShortAnswer:
		return models.ContentTypeShortAnswer
	}
	if platform == models.PlatformGoogleDocs || a.Description != "" {
		return models.ContentTypeText
	}
	return models.ContentTypeText
}

func detectGradingApproach(platform models.Platform, contentType models.ContentType) models.GradingApproach {
	switch {
	case contentType == models.ContentTypeCode && platform == models.PlatformGoogleForm:
		return models.GradingGenerousCode
	case contentType == models.ContentTypeChoice:
		return models.GradingAutoGrade
	case platform == models.PlatformGoogleForm:
		return models.GradingStandardQuiz
	case platform == models.PlatformGoogleDocs && contentType == models.ContentTypeText:
		return models.GradingEssayRubric
	default:
		return models.GradingAIAnalysis
	}
}

func collectTags(a models.AssignmentSnapshot, platform models.Platform, contentType models.ContentType) []string {
	tags := []string{string(platform), string(contentType)}
	if a.IsQuiz || a.QuizData != nil {
		tags = append(tags, "quiz")
	}
	if a.Rubric != nil {
		tags = append(tags, "rubric")
	}
	return tags
}
