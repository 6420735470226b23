package helpers

// Joiner accumulates the string fragments of an assembly listing (section
// headers, mnemonics, operands, data directives) and concatenates them with
// a single final allocation instead of repeated strings.Builder growth.
type Joiner struct {
	strings []joinerString
	length  uint32
}

type joinerString struct {
	data   string
	offset uint32
}

func (j *Joiner) AddString(data string) {
	j.strings = append(j.strings, joinerString{data, j.length})
	j.length += uint32(len(data))
}

func (j *Joiner) Done() []byte {
	buffer := make([]byte, j.length)
	for _, item := range j.strings {
		copy(buffer[item.offset:], item.data)
	}
	return buffer
}
