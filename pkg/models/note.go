package models

import "time"

// Note is a document created in the vault. Path is vault-relative and
// slash-delimited.
type Note struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Content string    `json:"content,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
}
