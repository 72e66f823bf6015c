package domain

// Entity is a persisted record with an identity assigned by the storage layer.
// An ID of zero means the record has not been persisted yet.
type Entity interface {
	GetID() int64
	SetID(id int64)
	GetVersion() int64
	SetVersion(version int64)
}

// Toggleable is an Entity that is never removed, only enabled or disabled.
type Toggleable interface {
	Entity
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// BaseEntity carries the identity and optimistic lock version shared by all entities
type BaseEntity struct {
	ID      int64 `db:"id"`      // Unique identifier, zero until first save
	Version int64 `db:"version"` // Incremented by the storage layer on every update
}

func (e *BaseEntity) GetID() int64 { return e.ID }

func (e *BaseEntity) SetID(id int64) { e.ID = id }

func (e *BaseEntity) GetVersion() int64 { return e.Version }

func (e *BaseEntity) SetVersion(version int64) { e.Version = version }

// NonRemovableEntity is a BaseEntity with an enabled flag
type NonRemovableEntity struct {
	BaseEntity
	Enabled bool `db:"enabled"` // Changed only through enable/disable
}

func (e *NonRemovableEntity) IsEnabled() bool { return e.Enabled }

func (e *NonRemovableEntity) SetEnabled(enabled bool) { e.Enabled = enabled }

// Club represents a removable club record
type Club struct {
	BaseEntity
	Name  string `db:"name"`  // Club name, unique
	Town  string `db:"town"`  // Town the club is based in
	Email string `db:"email"` // Contact email (optional)
}

// Instance represents a deployment instance that other records may depend on
type Instance struct {
	NonRemovableEntity
	Name string `db:"name"` // Instance name, unique
	Path string `db:"path"` // Filesystem or URL path of the instance
}
