// Package dto holds the wire-facing transfer models used in request and response bodies.
package dto

// Identified is implemented by every transfer model.
// An ID of zero means the client did not supply one.
type Identified interface {
	GetID() int64
	SetID(id int64)
}

// Toggleable is implemented by transfer models of non-removable resources.
type Toggleable interface {
	Identified
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// Base carries the identifier of a transfer model.
type Base struct {
	ID int64 `json:"id,omitempty"`
}

func (b *Base) GetID() int64 { return b.ID }

func (b *Base) SetID(id int64) { b.ID = id }

// NonRemovable adds the enabled flag to Base.
type NonRemovable struct {
	Base
	Enabled bool `json:"enabled"`
}

func (n *NonRemovable) IsEnabled() bool { return n.Enabled }

func (n *NonRemovable) SetEnabled(enabled bool) { n.Enabled = enabled }

// Club is the transfer model for clubs.
type Club struct {
	Base
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Town  string `json:"town" validate:"required,max=100"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// Instance is the transfer model for instances.
type Instance struct {
	NonRemovable
	Name string `json:"name" validate:"required,max=100"`
	Path string `json:"path" validate:"required"`
}
