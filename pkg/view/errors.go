package view

import "errors"

var (
	ErrTemplateNotFound = errors.New("view: template not found")
	ErrParseFailed      = errors.New("view: failed to parse template")
	ErrRenderFailed     = errors.New("view: failed to render template")
)
