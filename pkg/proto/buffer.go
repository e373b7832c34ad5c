package proto

// Buffer accumulates commands until they are flushed to the device.
type Buffer struct {
	cmds     []Command
	response bool
}

func (b *Buffer) Append(cmd Command) {
	if _, ok := cmd.(StatusRequest); ok {
		b.response = true
	}
	b.cmds = append(b.cmds, cmd)
}

func (b *Buffer) Len() int {
	return len(b.cmds)
}

func (b *Buffer) Commands() []Command {
	return b.cmds
}

// ExpectsResponse reports whether a status request is pending in the buffer.
func (b *Buffer) ExpectsResponse() bool {
	return b.response
}

func (b *Buffer) Bytes() []byte {
	var out []byte
	for _, cmd := range b.cmds {
		out = Encode(out, cmd)
	}
	return out
}

func (b *Buffer) Reset() {
	b.cmds = nil
	b.response = false
}
