package nbt

// Marshaler is implemented by application types that can describe themselves
// as a tag tree, such as a player record written to playerdata.
type Marshaler interface {
	// MarshalNBT returns the tree to encode. It is usually a *Compound.
	MarshalNBT() (Tag, error)
}

// Unmarshaler is implemented by application types that can populate
// themselves from a decoded tag tree.
type Unmarshaler interface {
	// UnmarshalNBT receives the decoded root. Typed accessors such as
	// GetInt report missing or mistyped fields.
	UnmarshalNBT(t Tag) error
}

// Codec aggregates both directions.
type Codec interface {
	Marshaler
	Unmarshaler
}
