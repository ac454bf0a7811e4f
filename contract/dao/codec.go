package dao

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/holiman/uint256"
)

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a Address) {
	w.buf.Write(a.Bytes())
}

func (w *binWriter) writeAmount(v *uint256.Int) {
	b := v.Bytes32()
	w.buf.Write(b[:])
}

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

var errEOF = errors.New("unexpected EOF")

func (r *binReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, errEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *binReader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	return int64(v), err
}

func (r *binReader) readVarUint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return v, nil
}

func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errEOF
	}
	b, err := r.take(int(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *binReader) readAddress() (Address, error) {
	b, err := r.take(len(Address{}))
	if err != nil {
		return Address{}, err
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (r *binReader) readAmount(dst *uint256.Int) error {
	b, err := r.take(32)
	if err != nil {
		return err
	}
	dst.SetBytes32(b)
	return nil
}

// EncodeConfig serializes a DAO configuration.
func EncodeConfig(cfg *Config) []byte {
	w := newWriter()
	w.writeString(cfg.Name)
	w.writeString(cfg.Symbol)
	w.writeAmount(&cfg.TotalRaiseAmount)
	w.writeAmount(&cfg.MinDepositPerUser)
	w.writeAmount(&cfg.MaxDepositPerUser)
	w.writeUint64(cfg.OwnerFeePerDeposit)
	w.writeBool(cfg.FeeInUSDC)
	w.writeUint64(cfg.Quorum)
	w.writeUint64(cfg.Threshold)
	w.writeAddress(cfg.OwnerAddress)
	w.writeAddress(cfg.USDC)
	w.writeAddress(cfg.Factory)
	w.writeAddress(cfg.Emitter)
	w.writeAddress(cfg.Implementation)
	w.writeInt64(cfg.CreatedAt)
	return w.bytes()
}

// DecodeConfig deserializes a DAO configuration.
func DecodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	var cfg Config
	var err error
	if cfg.Name, err = r.readString(); err != nil {
		return nil, err
	}
	if cfg.Symbol, err = r.readString(); err != nil {
		return nil, err
	}
	if err = r.readAmount(&cfg.TotalRaiseAmount); err != nil {
		return nil, err
	}
	if err = r.readAmount(&cfg.MinDepositPerUser); err != nil {
		return nil, err
	}
	if err = r.readAmount(&cfg.MaxDepositPerUser); err != nil {
		return nil, err
	}
	if cfg.OwnerFeePerDeposit, err = r.readUint64(); err != nil {
		return nil, err
	}
	if cfg.FeeInUSDC, err = r.readBool(); err != nil {
		return nil, err
	}
	if cfg.Quorum, err = r.readUint64(); err != nil {
		return nil, err
	}
	if cfg.Threshold, err = r.readUint64(); err != nil {
		return nil, err
	}
	if cfg.OwnerAddress, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.USDC, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.Factory, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.Emitter, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.Implementation, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EncodeWindow serializes the deposit window.
func EncodeWindow(win *Window) []byte {
	w := newWriter()
	w.writeBool(win.Open)
	w.writeInt64(win.Deadline)
	return w.bytes()
}

// DecodeWindow deserializes the deposit window.
func DecodeWindow(data []byte) (*Window, error) {
	r := newReader(data)
	var win Window
	var err error
	if win.Open, err = r.readBool(); err != nil {
		return nil, err
	}
	if win.Deadline, err = r.readInt64(); err != nil {
		return nil, err
	}
	return &win, nil
}

// EncodeGate serializes gate entries followed by their combinators.
func EncodeGate(g *Gate) []byte {
	w := newWriter()
	w.writeVarUint(uint64(len(g.Entries)))
	for i := range g.Entries {
		e := &g.Entries[i]
		w.writeAddress(e.Token)
		w.writeAmount(&e.MinBalance)
		w.writeBool(e.IsNFT)
	}
	w.writeVarUint(uint64(len(g.Ops)))
	for _, op := range g.Ops {
		w.buf.WriteByte(byte(op))
	}
	return w.bytes()
}

// DecodeGate deserializes a gate.
func DecodeGate(data []byte) (*Gate, error) {
	r := newReader(data)
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(data)) {
		return nil, errEOF
	}
	g := &Gate{Entries: make([]GateEntry, n)}
	for i := range g.Entries {
		e := &g.Entries[i]
		if e.Token, err = r.readAddress(); err != nil {
			return nil, err
		}
		if err = r.readAmount(&e.MinBalance); err != nil {
			return nil, err
		}
		if e.IsNFT, err = r.readBool(); err != nil {
			return nil, err
		}
	}
	m, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if m > uint64(len(data)) {
		return nil, errEOF
	}
	g.Ops = make([]Combinator, m)
	for i := range g.Ops {
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		g.Ops[i] = Combinator(b)
	}
	return g, nil
}

// EncodeAddressList serializes an ordered address list such as the admin set.
func EncodeAddressList(list []Address) []byte {
	w := newWriter()
	w.writeVarUint(uint64(len(list)))
	for _, a := range list {
		w.writeAddress(a)
	}
	return w.bytes()
}

// DecodeAddressList deserializes an address list.
func DecodeAddressList(data []byte) ([]Address, error) {
	r := newReader(data)
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(data)) {
		return nil, errEOF
	}
	list := make([]Address, n)
	for i := range list {
		if list[i], err = r.readAddress(); err != nil {
			return nil, err
		}
	}
	return list, nil
}
