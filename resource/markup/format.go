package markup

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magic = "MKUP"
	// Version is the only supported format version
	Version uint16 = 1
)

var (
	// ErrFormat is returned for payloads that are not compiled markup
	ErrFormat = errors.New("invalid markup format")
	// ErrTruncated is returned when a payload ends inside a record
	ErrTruncated = errors.New("truncated markup")
)

// Tree is a deserialized compiled markup document
type Tree struct {
	version  uint16
	nodeList []Node
}

// NewTree creates a tree of the supported version
func NewTree(nodes ...Node) *Tree {
	return &Tree{version: Version, nodeList: nodes}
}

// Version returns format version the tree was read with
func (t *Tree) Version() uint16 {
	return t.version
}

// Nodes returns nodes in document order
func (t *Tree) Nodes() []Node {
	return append([]Node(nil), t.nodeList...)
}

// Load deserializes a tree
func Load(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < len(magic)+2 || string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	rd := &reader{data: data, offset: len(magic)}
	tree := &Tree{version: binary.LittleEndian.Uint16(data[len(magic):])}
	rd.offset += 2
	if tree.version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, tree.version)
	}
	for rd.offset < len(data) {
		node, err := rd.node()
		if err != nil {
			return nil, err
		}
		tree.nodeList = append(tree.nodeList, node)
	}
	return tree, nil
}

// Serialize writes tree, encoding is canonical so equal trees produce equal bytes
func Serialize(w io.Writer, tree *Tree) error {
	wr := &writer{buffer: make([]byte, 0, 64)}
	wr.buffer = append(wr.buffer, magic...)
	wr.buffer = binary.LittleEndian.AppendUint16(wr.buffer, tree.version)
	for _, node := range tree.nodeList {
		node.encode(wr)
	}
	_, err := w.Write(wr.buffer)
	return err
}

type writer struct {
	buffer []byte
}

func (w *writer) record(recordType RecordType) {
	w.buffer = append(w.buffer, byte(recordType))
}

func (w *writer) string(value string) {
	w.buffer = binary.AppendUvarint(w.buffer, uint64(len(value)))
	w.buffer = append(w.buffer, value...)
}

type reader struct {
	data   []byte
	offset int
}

func (r *reader) node() (Node, error) {
	start := r.offset
	recordType := RecordType(r.data[r.offset])
	r.offset++
	switch recordType {
	case DocumentStartRecord:
		return &DocumentStart{}, nil
	case DocumentEndRecord:
		return &DocumentEnd{}, nil
	case EndElementRecord:
		return &EndElement{}, nil
	case StartElementRecord:
		assemblyName, err := r.string()
		if err != nil {
			return nil, err
		}
		typeFullName, err := r.string()
		if err != nil {
			return nil, err
		}
		return &StartElement{assemblyName: assemblyName, typeFullName: typeFullName}, nil
	case PropertyRecord:
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		value, err := r.string()
		if err != nil {
			return nil, err
		}
		return &Property{name: name, value: value}, nil
	case TextRecord:
		value, err := r.string()
		if err != nil {
			return nil, err
		}
		return &Text{value: value}, nil
	}
	return nil, fmt.Errorf("%w: unknown record 0x%02x at %d", ErrFormat, byte(recordType), start)
}

func (r *reader) string() (string, error) {
	length, n := binary.Uvarint(r.data[r.offset:])
	if n <= 0 {
		return "", fmt.Errorf("%w: invalid length at %d", ErrTruncated, r.offset)
	}
	r.offset += n
	if uint64(len(r.data)-r.offset) < length {
		return "", fmt.Errorf("%w: string of %d bytes at %d", ErrTruncated, length, r.offset)
	}
	ret := string(r.data[r.offset : r.offset+int(length)])
	r.offset += int(length)
	return ret, nil
}
