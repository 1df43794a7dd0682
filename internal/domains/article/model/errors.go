package model

import "angeles-backend/internal/shared/apperror"

var (
	ErrArticleNotFound = apperror.NotFound("article not found")

	ErrNotAuthorized  = apperror.Forbidden("not authorized to modify this article")
	ErrStatsForbidden = apperror.Forbidden("statistics are restricted to editors and admins")
)
