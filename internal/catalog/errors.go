package catalog

import "errors"

var (
	ErrBookNotFound = errors.New("catalog: book not found")
	ErrRefresh      = errors.New("catalog: failed to refresh books")
	ErrImageUpload  = errors.New("catalog: failed to upload cover image")
)
