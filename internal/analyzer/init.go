package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
)

// elaborateInitializer implements spec §4.5's "Initializer elaboration": a
// stack-pair state machine (current-object-type, current-element-index)
// that walks an initializer list in source order, applies designators,
// determines each leaf's offset and element type, and recurses into nested
// aggregates. Simplified to a single current (type, index, baseOffset)
// frame per recursion level rather than an explicit stack slice, since Go's
// own call stack plays that role across the recursive elaborate calls.
func (a *Analyzer) elaborateInitializer(il *cast.InitializerList, target ctype.Type) {
	a.elaborateAt(il, target, 0)
}

// elaborateAt elaborates il against an aggregate of type target whose first
// byte is at baseOffset within the enclosing object. It returns nothing.
func (a *Analyzer) elaborateAt(il *cast.InitializerList, target ctype.Type, baseOffset int64) {
	if il == nil {
		return
	}
	switch {
	case target.Class == ctype.TArray:
		a.elaborateArray(il, target, baseOffset)
	case target.IsRecord():
		a.elaborateRecord(il, target, baseOffset)
	default:
		// A scalar target may be singly brace-enclosed (spec §4.5 step 5):
		// `int x = {5};` elaborates as if written `int x = 5;`.
		if len(il.Elements) != 1 {
			a.errorf(il.Loc, "too many initializers for a scalar")
		}
		if len(il.Elements) > 0 {
			a.elaborateScalarElement(il.Elements[0], target, baseOffset)
		}
	}
}

func (a *Analyzer) elaborateArray(il *cast.InitializerList, target ctype.Type, baseOffset int64) {
	elemType := *target.Base
	elemSize := elemType.Size()
	if elemSize < 0 {
		elemSize = 0
	}

	// A character array may be initialized by a (possibly braced) string
	// literal; a wide-character array similarly (spec §4.5 step 5).
	if len(il.Elements) == 1 && il.Elements[0].Nested == nil {
		if lit, ok := il.Elements[0].Value.Data.(*cast.EStringLiteral); ok && elemType.IsCharacterType() {
			a.AnalyzeExpr(il.Elements[0].Value)
			il.Elements[0].Offset = baseOffset
			il.Elements[0].ElementType = target
			_ = lit
			return
		}
	}

	idx := int64(0)
	for _, elem := range il.Elements {
		for _, desig := range elem.Designators {
			if !desig.IsMember && desig.Index != nil {
				idx = a.evalConstIntOrZero(desig.Index)
			}
		}
		offset := baseOffset + idx*elemSize
		elem.Offset = offset
		elem.ElementType = elemType
		if elem.Nested != nil {
			a.elaborateAt(elem.Nested, elemType, offset)
		} else if elemType.IsRecord() || elemType.Class == ctype.TArray {
			a.errorf(elem.Loc, "nested aggregate initializer requires braces")
		} else {
			a.elaborateScalarElement(elem, elemType, offset)
		}
		idx++
	}
}

func (a *Analyzer) elaborateRecord(il *cast.InitializerList, target ctype.Type, baseOffset int64) {
	memberIdx := 0
	for _, elem := range il.Elements {
		for _, desig := range elem.Designators {
			if desig.IsMember {
				for i, m := range target.Members {
					if m.Name == desig.Name {
						memberIdx = i
						break
					}
				}
			}
		}
		if memberIdx >= len(target.Members) {
			a.errorf(elem.Loc, "too many initializers for struct/union")
			return
		}
		m := target.Members[memberIdx]
		offset := baseOffset + m.Offset
		elem.Offset = offset
		elem.ElementType = m.Type
		if elem.Nested != nil {
			a.elaborateAt(elem.Nested, m.Type, offset)
		} else if m.Type.IsRecord() || m.Type.Class == ctype.TArray {
			a.errorf(elem.Loc, "nested aggregate initializer requires braces")
		} else {
			a.elaborateScalarElement(elem, m.Type, offset)
		}
		if target.Class == ctype.TUnion {
			// Only the first named member of a union is initialized;
			// subsequent elements (there should be none) are errors
			// already reported above on the next iteration.
			memberIdx = len(target.Members)
			continue
		}
		memberIdx++
	}
}

func (a *Analyzer) elaborateScalarElement(elem *cast.InitializerElement, target ctype.Type, offset int64) {
	elem.Offset = offset
	elem.ElementType = target
	if elem.Value == nil {
		return
	}
	a.AnalyzeExpr(elem.Value)
	if !a.CanAssign(target, elem.Value.Type, elem.Value) {
		a.errorf(elem.Loc, "incompatible initializer type")
	}
}
