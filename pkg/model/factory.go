package model

import (
	"github.com/mesh-intelligence/pantry/pkg/schema"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Factory constructs models of one fixed type. It is the extension point
// for declaring model subtypes: the model name is supplied externally
// because a type name cannot be reliably recovered from an anonymous
// definition. Subtypes wanting additional behavior embed *Model in their
// own struct and build it through their factory.
type Factory struct {
	schema *schema.Schema
	name   string
}

// NewFactory binds a schema and a model name.
func NewFactory(sch *schema.Schema, name string) *Factory {
	return &Factory{schema: sch, name: name}
}

// ModelName returns the bound model name.
func (f *Factory) ModelName() string {
	return f.name
}

// New constructs a Model of the bound type from a raw attribute hash.
func (f *Factory) New(attrs types.Record) (*Model, error) {
	return New(f.schema, f.name, attrs)
}

// MustNew is New for fixture setup code; it panics on construction
// errors.
func (f *Factory) MustNew(attrs types.Record) *Model {
	m, err := f.New(attrs)
	if err != nil {
		panic(err)
	}
	return m
}
