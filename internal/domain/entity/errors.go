package entity

import "errors"

var (
	// ErrInvalidGeometry вырожденный четырёхугольник или точка в углу
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidTemplate некорректное описание шаблона
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrTemplateNotFound шаблон отсутствует в хранилище
	ErrTemplateNotFound = errors.New("template not found")
)

// ErrRecordNotFound запись инспекции отсутствует в журнале
var ErrRecordNotFound = errors.New("inspection record not found")
