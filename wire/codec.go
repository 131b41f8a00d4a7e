package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeTo writes m to w as a single length-delimited frame: a uint32
// little-endian byte count (excluding the count itself), followed by the
// tag byte and the variant's fixed-layout body. Grounded on
// original_source/src/node.rs, which frames each Operation the same way
// before handing it to a TCP stream; here the layout is made explicit with
// encoding/binary since Go has no bincode.
func (m Message) EncodeTo(w io.Writer) error {
	var body bytes.Buffer
	body.WriteByte(byte(m.Tag))

	switch m.Tag {
	case TagLocalInsertRequest:
		if err := writeFields(&body, int32(m.LocalInsert.Ch), m.LocalInsert.Line, m.LocalInsert.Column); err != nil {
			return err
		}
	case TagLocalDeleteRequest:
		if err := writeFields(&body, m.LocalDelete.Line, m.LocalDelete.Column); err != nil {
			return err
		}
	case TagRemoteInsert, TagRemoteDelete:
		if err := writeAtom(&body, m.RemoteAtom); err != nil {
			return err
		}
	default:
		return fmt.Errorf("wire: encode: unknown tag %v", m.Tag)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(body.Len())); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// DecodeFrom reads a single frame written by EncodeTo and parses it into a
// Message. Returns io.EOF only if the stream is closed cleanly before any
// byte of the length prefix is read; a frame truncated mid-body surfaces as
// io.ErrUnexpectedEOF via io.ReadFull.
func DecodeFrom(r io.Reader) (Message, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return Message{}, err
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Message{}, err
	}

	br := bytes.NewReader(body)
	tagByte, err := br.ReadByte()
	if err != nil {
		return Message{}, fmt.Errorf("wire: decode: reading tag: %w", err)
	}
	tag := Tag(tagByte)

	var m Message
	m.Tag = tag
	switch tag {
	case TagLocalInsertRequest:
		var ch int32
		if err := readFields(br, &ch, &m.LocalInsert.Line, &m.LocalInsert.Column); err != nil {
			return Message{}, err
		}
		m.LocalInsert.Ch = rune(ch)
	case TagLocalDeleteRequest:
		if err := readFields(br, &m.LocalDelete.Line, &m.LocalDelete.Column); err != nil {
			return Message{}, err
		}
	case TagRemoteInsert, TagRemoteDelete:
		atom, err := readAtom(br)
		if err != nil {
			return Message{}, err
		}
		m.RemoteAtom = atom
	default:
		return Message{}, fmt.Errorf("wire: decode: unknown tag %d", tagByte)
	}
	return m, nil
}

func writeFields(w io.Writer, fields ...interface{}) error {
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readFields(r io.Reader, fields ...interface{}) error {
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func writeAtom(w io.Writer, a Atom) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Position))); err != nil {
		return err
	}
	for _, id := range a.Position {
		if err := writeFields(w, id.Digit, id.Site); err != nil {
			return err
		}
	}
	return writeFields(w, a.Clock, int32(a.Val))
}

func readAtom(r io.Reader) (Atom, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return Atom{}, err
	}
	position := make([]Identifier, n)
	for i := range position {
		if err := readFields(r, &position[i].Digit, &position[i].Site); err != nil {
			return Atom{}, err
		}
	}
	var clock uint64
	var val int32
	if err := readFields(r, &clock, &val); err != nil {
		return Atom{}, err
	}
	return Atom{Position: position, Clock: clock, Val: rune(val)}, nil
}
