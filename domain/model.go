package domain

import (
	"errors"
	"fmt"
)

var ErrNoSuchAttribute = errors.New("no such attribute")

// NoSuchAttributeError is returned by ResolveAttribute when the source type
// has no attribute of the requested name.
type NoSuchAttributeError struct {
	Source ManagedType
	Name   string
}

func (e *NoSuchAttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Source.TypeName(), e.Name)
}

func (e *NoSuchAttributeError) Is(err error) bool {
	return err == ErrNoSuchAttribute
}

//go:generate mockgen -destination=mock/model.go -package=mock . Model

// Model is the gateway to the host's persistence model.
type Model interface {
	// ResolveEntity looks up an entity by entity name or class name.  The
	// result is an *EntityType or, for unmapped supertypes, a *PolymorphicType.
	ResolveEntity(name string) (Type, bool)
	// ResolveAttribute returns the named attribute of source or a
	// *NoSuchAttributeError.
	ResolveAttribute(source ManagedType, name string) (Attribute, error)
	ResolveBasicType(kind BasicKind) *BasicType
	ResolveArithmeticResultType(lhs, rhs Type, op string) (*BasicType, error)
	// ResolveClass looks up a non-entity class by name, e.g., for use as
	// a dynamic-instantiation target.
	ResolveClass(name string) (*Class, bool)
	StrictJPQLCompliance() bool
}

// PromoteNumeric returns the kind that binary arithmetic over lhs and rhs
// produces.  The widest operand wins in the order bigdecimal, bigint, double,
// float, long, int.
func PromoteNumeric(lhs, rhs BasicKind) (BasicKind, bool) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return 0, false
	}
	for _, k := range []BasicKind{KindBigDecimal, KindBigInt, KindDouble, KindFloat, KindLong} {
		if lhs == k || rhs == k {
			return k, true
		}
	}
	return KindInt, true
}
