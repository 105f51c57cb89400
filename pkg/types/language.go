package types

import (
	"context"
	"strings"
)

// Language groups courses. A language may have a parent language; its
// course count includes the courses of every ancestor.
type Language struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`

	// CoursesCount is computed by the mapper on load and never written.
	CoursesCount int `json:"courses_count"`
}

// Compile-time interface check.
var _ Trackable = (*Language)(nil)

// NewLanguage returns an unsaved language under parent, which may be nil.
// Returns ErrInvalidName for a blank name and ErrUnboundEntity for a parent
// that has not been saved.
func NewLanguage(name string, parent *Language) (*Language, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	l := &Language{Name: name}
	if parent != nil {
		if !IsBound(parent) {
			return nil, ErrUnboundEntity
		}
		l.ParentID = parent.ID
	}
	return l, nil
}

func (l *Language) EntityType() string   { return LanguageType }
func (l *Language) EntityID() int64      { return l.ID }
func (l *Language) SetEntityID(id int64) { l.ID = id }

func (l *Language) MarkNew(ctx context.Context)     { MarkNew(ctx, l) }
func (l *Language) MarkDirty(ctx context.Context)   { MarkDirty(ctx, l) }
func (l *Language) MarkRemoved(ctx context.Context) { MarkRemoved(ctx, l) }
