package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"angeles-backend/internal/shared"
)

const (
	ExcerptLength  = 150
	WordsPerMinute = 200
)

// DeriveExcerpt returns the first 150 characters of content followed by "...",
// or the whole content when it is not longer than that
func DeriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= ExcerptLength {
		return content
	}
	return string(runes[:ExcerptLength]) + "..."
}

// EstimateReadTime returns "<n> min read" with n = ceil(words / 200)
func EstimateReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}

// CanMutate is the single ownership policy for update and delete:
// the author, or any editor/admin
func CanMutate(caller *shared.Principal, ownerID uuid.UUID) bool {
	if caller == nil {
		return false
	}
	if caller.Role.IsPrivileged() {
		return true
	}
	return caller.ID == ownerID
}

// CanSeeAllStatuses reports whether the caller may list drafts and archived items
func CanSeeAllStatuses(caller *shared.Principal) bool {
	return caller != nil && caller.Role.IsPrivileged()
}
