package model

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Field length bounds, mirroring the client-side form constraints so the
// server rejects the same inputs the forms do.
const (
	TitleMinLen   = 5
	TitleMaxLen   = 130
	ContentMinLen = 20
	AnswerMinLen  = 100
	TagMinCount   = 1
	TagMaxCount   = 3
	TagMaxLen     = 15
	NameMinLen    = 3
	NameMaxLen    = 50
	BioMaxLen     = 2000
	LocationMax   = 50
)

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

// ValidationError reports a constraint violation on a single field. It is
// raised before any persistence call.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateQuestion checks title, content and tag constraints for a new or
// edited question.
func ValidateQuestion(title, content string, tags []string) error {
	if n := utf8.RuneCountInString(title); n < TitleMinLen || n > TitleMaxLen {
		return invalid("title", "must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	}
	if utf8.RuneCountInString(content) < ContentMinLen {
		return invalid("content", "must be at least %d characters", ContentMinLen)
	}
	if len(tags) < TagMinCount || len(tags) > TagMaxCount {
		return invalid("tags", "must have between %d and %d tags", TagMinCount, TagMaxCount)
	}
	for _, tag := range tags {
		if n := utf8.RuneCountInString(tag); n < 1 || n > TagMaxLen {
			return invalid("tags", "each tag must be between 1 and %d characters", TagMaxLen)
		}
	}
	return nil
}

// ValidateQuestionContent checks title and content only, for edits where
// tags are untouched.
func ValidateQuestionContent(title, content string) error {
	if n := utf8.RuneCountInString(title); n < TitleMinLen || n > TitleMaxLen {
		return invalid("title", "must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	}
	if utf8.RuneCountInString(content) < ContentMinLen {
		return invalid("content", "must be at least %d characters", ContentMinLen)
	}
	return nil
}

// ValidateAnswer checks the minimum answer length.
func ValidateAnswer(content string) error {
	if utf8.RuneCountInString(content) < AnswerMinLen {
		return invalid("content", "must be at least %d characters", AnswerMinLen)
	}
	return nil
}

// ValidateProfile checks the editable profile fields. Bio, location and
// portfolio may be empty.
func ValidateProfile(p ProfileUpdate) error {
	if n := utf8.RuneCountInString(p.Name); n < NameMinLen || n > NameMaxLen {
		return invalid("name", "must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	if n := utf8.RuneCountInString(p.Username); n < NameMinLen || n > NameMaxLen {
		return invalid("username", "must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	if p.Bio != "" {
		if n := utf8.RuneCountInString(p.Bio); n < NameMinLen || n > BioMaxLen {
			return invalid("bio", "must be between %d and %d characters", NameMinLen, BioMaxLen)
		}
	}
	if utf8.RuneCountInString(p.Location) > LocationMax {
		return invalid("location", "must not exceed %d characters", LocationMax)
	}
	if p.Portfolio != "" && !urlPattern.MatchString(p.Portfolio) {
		return invalid("portfolio", "must be a valid http(s) URL")
	}
	return nil
}
