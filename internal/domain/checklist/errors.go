package checklist

import "errors"

var (
	// ErrItemNotFound indicates the key is not on the current list.
	ErrItemNotFound = errors.New("checklist item not found")
	// ErrNoList indicates no list has been generated yet.
	ErrNoList = errors.New("no packing list generated")
)
