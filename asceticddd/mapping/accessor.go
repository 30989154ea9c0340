package mapping

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// FieldReadable lets an entity expose its mapped fields without reflection.
// cmd/mappinggen generates implementations from orm tags.
type FieldReadable interface {
	FieldValue(name string) (any, bool)
}

// Accessor reads and writes entity fields by name, including unexported ones.
// The field index table is built once per type.
type Accessor struct {
	metadata *ClassMetadata
	ptrType  reflect.Type
	indexes  map[string][]int
}

func NewAccessor(m *ClassMetadata) *Accessor {
	indexes := make(map[string][]int)
	for _, sf := range reflect.VisibleFields(m.Type()) {
		indexes[sf.Name] = sf.Index
	}
	return &Accessor{
		metadata: m,
		ptrType:  reflect.PointerTo(m.Type()),
		indexes:  indexes,
	}
}

func (a *Accessor) Metadata() *ClassMetadata {
	return a.metadata
}

// CheckField tells a field that does not exist apart from one that exists but
// is not mapped.
func (a *Accessor) CheckField(name string) error {
	if _, ok := a.indexes[name]; !ok {
		return errors.Wrapf(ErrUnknownField, "field %q does not exist on %s", name, a.metadata.Name())
	}
	if !a.metadata.IsMapped(name) {
		return errors.Wrapf(ErrUnmappedField, "field %q is not a mapped field on %s", name, a.metadata.Name())
	}
	return nil
}

// Accepts reports whether entity is a non-nil pointer to the mapped struct.
func (a *Accessor) Accepts(entity any) bool {
	v := reflect.ValueOf(entity)
	return v.IsValid() && v.Type() == a.ptrType && !v.IsNil()
}

// ValueOf returns the value of a mapped field. Nil pointers and interfaces
// read as nil, other pointers are dereferenced.
func (a *Accessor) ValueOf(entity any, name string) (any, error) {
	if err := a.CheckField(name); err != nil {
		return nil, err
	}
	if !a.Accepts(entity) {
		return nil, a.mismatch(entity)
	}
	if r, ok := entity.(FieldReadable); ok {
		if v, found := r.FieldValue(name); found {
			return deref(reflect.ValueOf(v)), nil
		}
	}
	return deref(a.field(entity, name)), nil
}

// FieldType returns the declared type of a mapped field with pointers
// removed.
func (a *Accessor) FieldType(name string) (reflect.Type, error) {
	if err := a.CheckField(name); err != nil {
		return nil, err
	}
	t := a.metadata.Type().FieldByIndex(a.indexes[name]).Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, nil
}

// IsUnset reports whether a field still holds nil or its zero value.
func (a *Accessor) IsUnset(entity any, name string) (bool, error) {
	if err := a.CheckField(name); err != nil {
		return false, err
	}
	if !a.Accepts(entity) {
		return false, a.mismatch(entity)
	}
	fv := a.field(entity, name)
	if !fv.IsValid() {
		return true, nil
	}
	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return fv.IsNil(), nil
	}
	return fv.IsZero(), nil
}

// SetValue assigns a mapped field, converting value to the field type.
// Pointer fields receive a freshly allocated element.
func (a *Accessor) SetValue(entity any, name string, value any) error {
	if err := a.CheckField(name); err != nil {
		return err
	}
	if !a.Accepts(entity) {
		return a.mismatch(entity)
	}
	fv := a.field(entity, name)
	if !fv.IsValid() {
		return errors.Wrapf(ErrInvalidMapping, "field %q on %s is behind a nil embedded pointer", name, a.metadata.Name())
	}
	if fv.Kind() == reflect.Pointer {
		elem := reflect.New(fv.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return errors.Wrapf(err, "field %q on %s", name, a.metadata.Name())
		}
		fv.Set(elem)
		return nil
	}
	if err := assign(fv, value); err != nil {
		return errors.Wrapf(err, "field %q on %s", name, a.metadata.Name())
	}
	return nil
}

func (a *Accessor) mismatch(entity any) error {
	return errors.Wrapf(ErrTypeMismatch, "expected %s, %T given", a.ptrType, entity)
}

// field returns a writable view of the field, or the zero Value when an
// embedded pointer on the path is nil.
func (a *Accessor) field(entity any, name string) reflect.Value {
	fv, err := reflect.ValueOf(entity).Elem().FieldByIndexErr(a.indexes[name])
	if err != nil {
		return reflect.Value{}
	}
	return reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
}

func deref(v reflect.Value) any {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func assign(dst reflect.Value, value any) error {
	src := reflect.ValueOf(value)
	if !src.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if wrapped, ok, err := nullableOf(dst.Type(), value); ok {
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(wrapped))
		return nil
	}
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if dst.Kind() == reflect.String {
		if s, ok := value.(fmt.Stringer); ok {
			dst.SetString(s.String())
			return nil
		}
		if src.Kind() != reflect.String {
			return errors.Wrapf(ErrTypeMismatch, "cannot assign %T to %s", value, dst.Type())
		}
	}
	if src.Type().ConvertibleTo(dst.Type()) {
		if overflows(dst.Type(), src) {
			return errors.Wrapf(ErrOutOfRange, "%v does not fit %s", value, dst.Type())
		}
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return errors.Wrapf(ErrTypeMismatch, "cannot assign %T to %s", value, dst.Type())
}

func overflows(dst reflect.Type, src reflect.Value) bool {
	zero := reflect.Zero(dst)
	switch {
	case isSigned(dst.Kind()) && isSigned(src.Kind()):
		return zero.OverflowInt(src.Int())
	case isSigned(dst.Kind()) && isUnsigned(src.Kind()):
		return src.Uint() > math.MaxInt64 || zero.OverflowInt(int64(src.Uint()))
	case isUnsigned(dst.Kind()) && isSigned(src.Kind()):
		return src.Int() < 0 || zero.OverflowUint(uint64(src.Int()))
	case isUnsigned(dst.Kind()) && isUnsigned(src.Kind()):
		return zero.OverflowUint(src.Uint())
	}
	return false
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// MaxInteger is the largest value an integer field of type t can hold,
// capped at MaxInt64. It reports false for non-integer types.
func MaxInteger(t reflect.Type) (int64, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if limit, ok := pgIntegerMax[t]; ok {
		return limit, true
	}
	switch {
	case isSigned(t.Kind()):
		return int64(1)<<(t.Bits()-1) - 1, true
	case isUnsigned(t.Kind()):
		if t.Bits() >= 64 {
			return math.MaxInt64, true
		}
		return int64(1)<<t.Bits() - 1, true
	}
	return 0, false
}
