package engine

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"math"
	"sync"
)

// constants is the process-wide constant table shared by every VM.
// Atoms and functors are indices into it.
var constants = NewCTable()

// CTable is an append-only interning table. Each distinct constant gets a stable small-integer index.
// It is safe for concurrent use.
type CTable struct {
	mu      sync.RWMutex
	seed    maphash.Seed
	buckets map[uint64][]ctEntry
	objects []interface{}
}

type ctEntry struct {
	object interface{}
	index  uint32
}

// atomName is the interned representation of an atom.
type atomName string

// functorKey is the interned representation of a functor.
type functorKey struct {
	name  Atom
	arity int
}

// NewCTable creates a constant table. Index 0 is always the empty atom.
func NewCTable() *CTable {
	t := CTable{
		seed:    maphash.MakeSeed(),
		buckets: map[uint64][]ctEntry{},
	}
	t.Intern(atomName(""))
	return &t
}

// Intern returns the index of obj, adding it to the table if it's not there yet.
// Interning equal objects always returns the same index.
func (t *CTable) Intern(obj interface{}) uint32 {
	h := t.hash(obj)

	t.mu.RLock()
	i, ok := t.lookup(h, obj)
	t.mu.RUnlock()
	if ok {
		return i
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Someone may have added it while we were waiting for the lock.
	if i, ok := t.lookup(h, obj); ok {
		return i
	}

	i = uint32(len(t.objects))
	t.objects = append(t.objects, obj)
	t.buckets[h] = append(t.buckets[h], ctEntry{object: obj, index: i})
	return i
}

// Object returns the object at index i.
func (t *CTable) Object(i uint32) interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(i) >= len(t.objects) {
		return nil
	}
	return t.objects[i]
}

// Len returns the number of interned objects.
func (t *CTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.objects)
}

func (t *CTable) lookup(h uint64, obj interface{}) (uint32, bool) {
	for _, e := range t.buckets[h] {
		if ctEqual(e.object, obj) {
			return e.index, true
		}
	}
	return 0, false
}

func (t *CTable) hash(obj interface{}) uint64 {
	var h maphash.Hash
	h.SetSeed(t.seed)
	var buf [8]byte
	switch o := obj.(type) {
	case atomName:
		_ = h.WriteByte('a')
		_, _ = h.WriteString(string(o))
	case functorKey:
		_ = h.WriteByte('f')
		binary.BigEndian.PutUint32(buf[:4], uint32(o.name))
		_, _ = h.Write(buf[:4])
		binary.BigEndian.PutUint32(buf[:4], uint32(o.arity))
		_, _ = h.Write(buf[:4])
	case Integer:
		_ = h.WriteByte('i')
		binary.BigEndian.PutUint64(buf[:], uint64(o))
		_, _ = h.Write(buf[:])
	case Float:
		_ = h.WriteByte('f')
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(float64(o)))
		_, _ = h.Write(buf[:])
	case *BigInteger:
		_ = h.WriteByte('b')
		_ = h.WriteByte(byte(o.i.Sign() + 1))
		_, _ = h.Write(o.i.Bytes())
	case *Rational:
		_ = h.WriteByte('r')
		_ = h.WriteByte(byte(o.r.Sign() + 1))
		_, _ = h.Write(o.r.Num().Bytes())
		_ = h.WriteByte('/')
		_, _ = h.Write(o.r.Denom().Bytes())
	case *Blob:
		// Blobs are identified by their address.
		_, _ = fmt.Fprintf(&h, "blob%p", o)
	default:
		_, _ = fmt.Fprintf(&h, "%T%v", o, o)
	}
	return h.Sum64()
}

func ctEqual(x, y interface{}) bool {
	switch x := x.(type) {
	case *BigInteger:
		y, ok := y.(*BigInteger)
		return ok && x.i.Cmp(&y.i) == 0
	case *Rational:
		y, ok := y.(*Rational)
		return ok && x.r.Cmp(&y.r) == 0
	default:
		return x == y
	}
}
