package hashid

import (
	"encoding/binary"
	"log/slog"
	"math"
	"reflect"

	"github.com/google/uuid"
)

// Key is the primary key type of a model.
type Key interface {
	int64 | uuid.UUID
}

// Keyed is a model that exposes its primary key.
type Keyed[K Key] interface {
	GetKey() K
}

// ModelName returns the name of v's type without package path or pointer.
func ModelName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// Type is the hash ID capability of one model type.
type Type[K Key] struct {
	gen  *Generator
	name string
}

// NewType registers name with gen and returns its hash ID capability.
func NewType[K Key](gen *Generator, name string) *Type[K] {
	gen.Register(name)
	return &Type[K]{gen: gen, name: name}
}

func (t *Type[K]) Name() string {
	return t.name
}

func (t *Type[K]) Generator() *Generator {
	return t.gen
}

// HashIDFor encodes key as a hash ID of this model type.
func (t *Type[K]) HashIDFor(key K) (string, error) {
	return t.gen.Encode(t.name, keyNumbers(key))
}

// KeyFromHashID returns the key hashID was built from. It reports false,
// never an error, for strings that are not hash IDs of this model type.
func (t *Type[K]) KeyFromHashID(hashID string) (K, bool) {
	var zero K
	parsed, err := t.gen.ParseFor(t.name, hashID)
	if err != nil {
		slog.Debug("hash id prefix mismatch", slog.String("model", t.name), slog.String("hash_id", hashID))
		return zero, false
	}
	numbers, ok := t.gen.Decode(t.name, parsed.HashIDForKey)
	if !ok {
		slog.Debug("hash id not decodable", slog.String("model", t.name), slog.String("hash_id", hashID))
		return zero, false
	}
	return numbersKey[K](numbers)
}

// Wrap attaches the hash ID attributes to m.
func (t *Type[K]) Wrap(m Keyed[K]) *Model[K] {
	return &Model[K]{typ: t, entity: m}
}

// Model decorates an entity with its derived hash ID attributes. Nothing
// is cached: every call reflects the current key and configuration.
type Model[K Key] struct {
	typ    *Type[K]
	entity Keyed[K]
}

func (m *Model[K]) Entity() Keyed[K] {
	return m.entity
}

func (m *Model[K]) HashID() (string, error) {
	return m.typ.HashIDFor(m.entity.GetKey())
}

// HashIDRaw returns the hash ID without prefix and separator.
func (m *Model[K]) HashIDRaw() (string, error) {
	hashID, err := m.HashID()
	if err != nil {
		return "", err
	}
	parsed, err := m.typ.gen.ParseFor(m.typ.name, hashID)
	if err != nil {
		return "", err
	}
	return parsed.HashIDForKey, nil
}

func keyNumbers[K Key](key K) []uint64 {
	switch k := any(key).(type) {
	case int64:
		return []uint64{uint64(k)}
	case uuid.UUID:
		numbers := make([]uint64, 4)
		for i := range numbers {
			numbers[i] = uint64(binary.BigEndian.Uint32(k[i*4:]))
		}
		return numbers
	}
	return nil
}

func numbersKey[K Key](numbers []uint64) (K, bool) {
	var zero K
	switch any(zero).(type) {
	case int64:
		if len(numbers) != 1 || numbers[0] > math.MaxInt64 {
			return zero, false
		}
		return any(int64(numbers[0])).(K), true
	case uuid.UUID:
		if len(numbers) != 4 {
			return zero, false
		}
		var u uuid.UUID
		for i, n := range numbers {
			if n > math.MaxUint32 {
				return zero, false
			}
			binary.BigEndian.PutUint32(u[i*4:], uint32(n))
		}
		return any(u).(K), true
	}
	return zero, false
}
