package mapping

import "errors"

var (
	ErrUnknownField        = errors.New("mapping: unknown field")
	ErrUnmappedField       = errors.New("mapping: field is not mapped")
	ErrNoIdentifierField   = errors.New("mapping: no identifier field")
	ErrMultipleIdentifiers = errors.New("mapping: composite identifiers are not supported")
	ErrUnknownTypeHint     = errors.New("mapping: unknown type hint")
	ErrInvalidMapping      = errors.New("mapping: invalid mapping")
	ErrNotAStruct          = errors.New("mapping: entity type is not a struct")
	ErrMetadataNotFound    = errors.New("mapping: no metadata for type")
	ErrTypeMismatch        = errors.New("mapping: entity type mismatch")
	ErrOutOfRange          = errors.New("mapping: value out of range for field")
)

// ErrMissingIdentifier is the name the manager-facing API uses for ErrNoIdentifierField.
var ErrMissingIdentifier = ErrNoIdentifierField
