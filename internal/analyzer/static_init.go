package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/cconst"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// materializeStaticInit implements spec §4.5's "Static initializer
// materialization": for each elaborated leaf of a static-duration object,
// either copy string-literal bytes or evaluate a constant expression,
// memcpy'ing arithmetic values and recording address constants as
// relocations.
func (a *Analyzer) materializeStaticInit(ref symtab.Ref, il *cast.InitializerList, t ctype.Type) {
	size := t.Size()
	if size < 0 {
		size = 0
	}
	buf := make([]byte, size)
	var relocs []symtab.Relocation
	a.writeInitLeaves(il, &buf, &relocs)

	sym := a.Table.Get(ref)
	sym.Init = &symtab.InitData{Bytes: buf}
	sym.Relocations = relocs
}

func (a *Analyzer) writeInitLeaves(il *cast.InitializerList, buf *[]byte, relocs *[]symtab.Relocation) {
	if il == nil {
		return
	}
	for _, elem := range il.Elements {
		if elem.Nested != nil {
			a.writeInitLeaves(elem.Nested, buf, relocs)
			continue
		}
		if elem.Value == nil {
			continue
		}
		a.writeLeaf(elem, buf, relocs)
	}
}

func (a *Analyzer) writeLeaf(elem *cast.InitializerElement, buf *[]byte, relocs *[]symtab.Relocation) {
	if lit, ok := elem.Value.Data.(*cast.EStringLiteral); ok && elem.ElementType.Class == ctype.TArray {
		copyAt(buf, elem.Offset, append(append([]byte{}, lit.Value...), 0))
		return
	}

	v, err := a.evalConst(elem.Value)
	if err != nil {
		a.errorf(elem.Loc, "static initializer is not a constant expression: %s", err.Error())
		return
	}

	if v.Kind == cconst.KindAddress {
		size := elem.ElementType.Size()
		if size <= 0 {
			size = 8
		}
		*relocs = append(*relocs, symtab.Relocation{
			DataOffset: elem.Offset,
			Target:     v.Target,
			Addend:     v.Addend,
		})
		copyAt(buf, elem.Offset, cconst.Bytes(cconst.Value{Kind: cconst.KindInteger, Int: uint64(v.Addend)}, int(size)))
		return
	}

	size := elem.ElementType.Size()
	if size <= 0 {
		size = 8
	}
	copyAt(buf, elem.Offset, cconst.Bytes(v, int(size)))
}

func copyAt(buf *[]byte, offset int64, data []byte) {
	if offset < 0 {
		return
	}
	end := offset + int64(len(data))
	if end > int64(len(*buf)) {
		grown := make([]byte, end)
		copy(grown, *buf)
		*buf = grown
	}
	copy((*buf)[offset:end], data)
}
