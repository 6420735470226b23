// Package asmwriter writes the final GAS-syntax assembly text for a
// completed emitter.Output (spec §4.7): `.data`, `.rodata`, `.text`
// sections in order, with data buffers serialized into the largest aligned
// directive available and relocations splicing in symbol references.
//
// Output is assembled with internal/helpers.Joiner: pre-sized fragment
// accumulation instead of repeated string concatenation.
package asmwriter

import (
	"fmt"

	"github.com/ripleymj/ecc/internal/emitter"
	"github.com/ripleymj/ecc/internal/helpers"
)

// Write renders out as a complete assembly-source string.
func Write(out emitter.Output) string {
	var j helpers.Joiner

	if len(out.Data) > 0 {
		j.AddString(".data\n")
		for _, d := range out.Data {
			writeDataItem(&j, d)
		}
	}

	if len(out.RoData) > 0 {
		j.AddString(".section .rodata\n")
		for _, d := range out.RoData {
			writeDataItem(&j, d)
		}
	}

	if len(out.Routines) > 0 {
		j.AddString(".text\n")
		for _, r := range out.Routines {
			writeRoutine(&j, r)
		}
	}

	return string(j.Done())
}

func writeDataItem(j *helpers.Joiner, d emitter.Data) {
	align := d.Align
	if align < 1 {
		align = 1
	}
	j.AddString(fmt.Sprintf(".align %d\n", align))
	if d.Global {
		j.AddString(fmt.Sprintf(".globl %s\n", d.Label))
	}
	j.AddString(fmt.Sprintf("%s:\n", d.Label))
	j.AddString(serializeBytes(d.Bytes, d.Relocations))
}

func writeRoutine(j *helpers.Joiner, r emitter.Routine) {
	if r.Global {
		j.AddString(fmt.Sprintf(".globl %s\n", r.Label))
	}
	j.AddString(r.Text)
}

// serializeBytes implements spec §4.7's data-serialization rule: walk the
// byte buffer emitting the largest aligned chunk available (.quad, .long,
// .word, .byte), except at a recorded relocation offset, where an 8-byte
// `.quad label [+ addend]` is emitted instead of raw bytes.
func serializeBytes(data []byte, relocs []emitter.DataReloc) string {
	var b []byte
	relocAt := make(map[int64]emitter.DataReloc, len(relocs))
	for _, r := range relocs {
		relocAt[r.Offset] = r
	}

	i := int64(0)
	n := int64(len(data))
	for i < n {
		if r, ok := relocAt[i]; ok {
			b = append(b, relocDirective(r)...)
			i += 8
			continue
		}
		remaining := n - i
		switch {
		case remaining >= 8 && i%8 == 0:
			b = append(b, directive(".quad", le64(data[i:i+8]))...)
			i += 8
		case remaining >= 4 && i%4 == 0:
			b = append(b, directive(".long", le32(data[i:i+4]))...)
			i += 4
		case remaining >= 2 && i%2 == 0:
			b = append(b, directive(".word", le16(data[i:i+2]))...)
			i += 2
		default:
			b = append(b, directive(".byte", fmt.Sprintf("%d", data[i]))...)
			i++
		}
	}
	return string(b)
}

func relocDirective(r emitter.DataReloc) string {
	if r.Addend == 0 {
		return fmt.Sprintf("\t.quad %s\n", r.TargetLabel)
	}
	if r.Addend > 0 {
		return fmt.Sprintf("\t.quad %s + %d\n", r.TargetLabel, r.Addend)
	}
	return fmt.Sprintf("\t.quad %s - %d\n", r.TargetLabel, -r.Addend)
}

func directive(name, value string) string {
	return fmt.Sprintf("\t%s %s\n", name, value)
}

func le16(b []byte) string {
	return fmt.Sprintf("%d", uint16(b[0])|uint16(b[1])<<8)
}

func le32(b []byte) string {
	return fmt.Sprintf("%d", uint32(b[0])|uint32(b[1])<<8|uint32(b[2])<<16|uint32(b[3])<<24)
}

func le64(b []byte) string {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return fmt.Sprintf("%d", v)
}
