package proto

import (
	"bytes"
	"fmt"
)

const (
	ESC = 0x1B
	SYN = 0x16
)

// Opcode is the ASCII letter following ESC in a device command.
type Opcode byte

const (
	OpStatus       Opcode = 'A'
	OpDotTab       Opcode = 'B'
	OpTapeColor    Opcode = 'C'
	OpBytesPerLine Opcode = 'D'
	OpCut          Opcode = 'E'
)

// Command is one instruction for the labeler. The set of implementations is
// closed; Encode switches over all of them.
type Command interface {
	command()
}

type StatusRequest struct{}

type DotTab struct{ N byte }

type TapeColor struct{ N byte }

type BytesPerLine struct{ N byte }

type Cut struct{}

// Line prints one row of tape. Its length must match the last BytesPerLine.
type Line struct{ Data []byte }

// SkipLines feeds N blank rows.
type SkipLines struct{ N int }

// Init is the label initialization sequence of eight NUL bytes.
type Init struct{}

func (StatusRequest) command() {}
func (DotTab) command()        {}
func (TapeColor) command()     {}
func (BytesPerLine) command()  {}
func (Cut) command()           {}
func (Line) command()          {}
func (SkipLines) command()     {}
func (Init) command()          {}

// Encode appends the wire form of cmd to dst.
func Encode(dst []byte, cmd Command) []byte {
	switch c := cmd.(type) {
	case StatusRequest:
		return append(dst, ESC, byte(OpStatus))
	case DotTab:
		return append(dst, ESC, byte(OpDotTab), c.N)
	case TapeColor:
		return append(dst, ESC, byte(OpTapeColor), c.N)
	case BytesPerLine:
		return append(dst, ESC, byte(OpBytesPerLine), c.N)
	case Cut:
		return append(dst, ESC, byte(OpCut))
	case Line:
		dst = append(dst, SYN)
		return append(dst, c.Data...)
	case SkipLines:
		return append(dst, bytes.Repeat([]byte{SYN}, c.N)...)
	case Init:
		return append(dst, make([]byte, 8)...)
	default:
		panic(fmt.Sprintf("proto: unknown command %T", cmd))
	}
}
