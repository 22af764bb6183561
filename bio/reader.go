// Package bio provides a typed, offset-aware binary reader over a seekable
// stream. It caters for sonar log formats that mix little- and big-endian
// fields within the same file, so endianness is selected per call rather
// than fixed on the reader.
package bio

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrUnexpectedEnd is returned when a read runs past the end of the
// underlying stream.
var ErrUnexpectedEnd = errors.New("bio: unexpected end of stream")

// Stream is the minimal interface a reader needs: seekable, readable.
// Satisfied by *os.File and *bytes.Reader alike.
type Stream interface {
	io.Reader
	io.Seeker
}

// Reader is a typed, offset-aware binary reader over a Stream.
type Reader struct {
	Stream
}

// NewReader constructs a Reader over the given Stream.
func NewReader(stream Stream) *Reader {
	return &Reader{Stream: stream}
}

// Position returns the reader's current absolute offset.
func (r *Reader) Position() (int64, error) {
	return r.Seek(0, io.SeekCurrent)
}

// SeekAbs moves the reader to an absolute offset from the start of the
// stream.
func (r *Reader) SeekAbs(offset int64) (int64, error) {
	return r.Seek(offset, io.SeekStart)
}

func (r *Reader) read(order binary.ByteOrder, v any) error {
	if err := binary.Read(r.Stream, order, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrUnexpectedEnd
		}
		return err
	}
	return nil
}

// ReadU8 reads a single unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	var v uint8
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadI8 reads a single signed byte.
func (r *Reader) ReadI8() (int8, error) {
	var v int8
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadU16LE reads a little-endian uint16.
func (r *Reader) ReadU16LE() (uint16, error) {
	var v uint16
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadU16BE reads a big-endian uint16.
func (r *Reader) ReadU16BE() (uint16, error) {
	var v uint16
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadI16LE reads a little-endian int16.
func (r *Reader) ReadI16LE() (int16, error) {
	var v int16
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadI16BE reads a big-endian int16.
func (r *Reader) ReadI16BE() (int16, error) {
	var v int16
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadU32LE reads a little-endian uint32.
func (r *Reader) ReadU32LE() (uint32, error) {
	var v uint32
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadU32BE reads a big-endian uint32.
func (r *Reader) ReadU32BE() (uint32, error) {
	var v uint32
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadI32LE reads a little-endian int32.
func (r *Reader) ReadI32LE() (int32, error) {
	var v int32
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadI32BE reads a big-endian int32.
func (r *Reader) ReadI32BE() (int32, error) {
	var v int32
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadU64LE reads a little-endian uint64.
func (r *Reader) ReadU64LE() (uint64, error) {
	var v uint64
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadU64BE reads a big-endian uint64.
func (r *Reader) ReadU64BE() (uint64, error) {
	var v uint64
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadI64LE reads a little-endian int64.
func (r *Reader) ReadI64LE() (int64, error) {
	var v int64
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadI64BE reads a big-endian int64.
func (r *Reader) ReadI64BE() (int64, error) {
	var v int64
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadF32LE reads a little-endian float32.
func (r *Reader) ReadF32LE() (float32, error) {
	var v float32
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadF32BE reads a big-endian float32.
func (r *Reader) ReadF32BE() (float32, error) {
	var v float32
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadF64LE reads a little-endian float64.
func (r *Reader) ReadF64LE() (float64, error) {
	var v float64
	err := r.read(binary.LittleEndian, &v)
	return v, err
}

// ReadF64BE reads a big-endian float64.
func (r *Reader) ReadF64BE() (float64, error) {
	var v float64
	err := r.read(binary.BigEndian, &v)
	return v, err
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.Stream, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnexpectedEnd
		}
		return nil, err
	}
	return buf, nil
}
