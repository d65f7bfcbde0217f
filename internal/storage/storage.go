package storage

import "errors"

const (
	UniqueViolation = "23505"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrAlertNotFound    = errors.New("alert not found")
	ErrAlertExists      = errors.New("user already has an alert for this product")
	ErrCategoryNotFound = errors.New("category not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrFilterExists     = errors.New("filter already exists")
)
