package variant

// Visitor receives the parts of a decoded Variant in order.
//
// VisitHeader is called first. A scalar payload produces one VisitScalar
// call with index -1. A vector payload is bracketed by BeginVector and
// EndVector with one VisitScalar per element. An array payload is bracketed
// by BeginArray and EndArray with one VisitBound per dimension followed by
// one VisitScalar per flattened element.
type Visitor interface {
	VisitHeader(v *Variant) error
	VisitScalar(index int, s Scalar) error

	BeginVector(v *Vector) error
	EndVector(v *Vector) error

	BeginArray(a *Array) error
	VisitBound(index int, b Bound) error
	EndArray(a *Array) error
}

// Walk feeds v to visitor, stopping at the first error.
func Walk(v *Variant, visitor Visitor) error {
	if err := visitor.VisitHeader(v); err != nil {
		return err
	}
	switch x := v.Value.(type) {
	case Scalar:
		return visitor.VisitScalar(-1, x)
	case *Vector:
		if err := visitor.BeginVector(x); err != nil {
			return err
		}
		if err := visitElements(x.Elements, visitor); err != nil {
			return err
		}
		return visitor.EndVector(x)
	case *Array:
		if err := visitor.BeginArray(x); err != nil {
			return err
		}
		for i, b := range x.Bounds {
			if err := visitor.VisitBound(i, b); err != nil {
				return err
			}
		}
		if err := visitElements(x.Data.Elements, visitor); err != nil {
			return err
		}
		return visitor.EndArray(x)
	}
	return nil
}

func visitElements(elems []Scalar, visitor Visitor) error {
	for i, e := range elems {
		if err := visitor.VisitScalar(i, e); err != nil {
			return err
		}
	}
	return nil
}
