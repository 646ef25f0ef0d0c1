package render

import (
	"bytes"
	"fmt"
	"strconv"
)

// A ByteRenderer accumulates rendered output. It never fails: anything
// that can not be written is recorded inline so the problem is visible in
// the output during debugging.
type ByteRenderer struct {
	bytes.Buffer
}

// Render writes the given values to the buffer, converting each to its
// natural byte representation.
func (r *ByteRenderer) Render(inputs ...any) {
	for _, s := range inputs {
		switch v := s.(type) {
		case string:
			r.WriteString(v)
		case []byte:
			r.Write(v)
		case int:
			r.WriteString(strconv.Itoa(v))
		case byte:
			r.WriteByte(v)
		case rune:
			r.WriteRune(v)
		case nil:
		default:
			r.WriteString(fmt.Sprintf("<!-- unsupported render value %T -->", v))
		}
	}
}

// Renderln writes the given values followed by a newline.
func (r *ByteRenderer) Renderln(inputs ...any) {
	r.Render(inputs...)
	r.Render("\n")
}

// CloneBytes returns a copy of the accumulated output.
func (r *ByteRenderer) CloneBytes() []byte {
	return bytes.Clone(r.Bytes())
}
