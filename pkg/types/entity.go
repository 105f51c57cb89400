package types

import "context"

// Entity type names used as Registry keys.
const (
	StudentType  = "student"
	CourseType   = "course"
	LanguageType = "language"
)

// Entity is an in-memory object that a Mapper can persist. EntityID returns
// zero until the backend has assigned an id on the first successful insert.
type Entity interface {
	EntityType() string
	EntityID() int64
	SetEntityID(id int64)
}

// Trackable is an Entity that can report lifecycle changes to the Tracker
// carried by ctx. The Mark methods panic when ctx carries no Tracker.
type Trackable interface {
	Entity
	MarkNew(ctx context.Context)
	MarkDirty(ctx context.Context)
	MarkRemoved(ctx context.Context)
}

// IsBound reports whether e has a backend-assigned id.
func IsBound(e Entity) bool {
	return e.EntityID() != 0
}
