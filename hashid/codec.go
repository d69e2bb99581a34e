package hashid

import (
	"errors"
	"fmt"
	"math"

	"github.com/jellydator/ttlcache/v3"
	"github.com/speps/go-hashids/v2"
	"github.com/sqids/sqids-go"
)

var ErrUndecodable = errors.New("hash does not decode to a valid value")

// Codec turns numbers into a hash and back. Decode fails with
// ErrUndecodable for strings the codec would never have produced.
type Codec interface {
	Encode(numbers []uint64) (string, error)
	Decode(hash string) ([]uint64, error)
}

type codecKey struct {
	engine   string
	salt     string
	alphabet string
	length   int
}

const codecCacheCapacity = 128

type codecCache struct {
	cache *ttlcache.Cache[codecKey, Codec]
}

func newCodecCache() *codecCache {
	return &codecCache{
		cache: ttlcache.New[codecKey, Codec](
			ttlcache.WithCapacity[codecKey, Codec](codecCacheCapacity),
		),
	}
}

func (c *codecCache) get(cfg Config) (Codec, error) {
	key := codecKey{engine: cfg.Engine, salt: cfg.Salt, alphabet: cfg.Alphabet, length: cfg.Length}
	if item := c.cache.Get(key); item != nil {
		return item.Value(), nil
	}
	codec, err := NewCodec(cfg)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, codec, ttlcache.NoTTL)
	return codec, nil
}

// NewCodec builds the codec selected by cfg.Engine.
func NewCodec(cfg Config) (Codec, error) {
	switch cfg.Engine {
	case EngineHashids, "":
		return newHashidsCodec(cfg)
	case EngineSqids:
		return newSqidsCodec(cfg)
	}
	return nil, fmt.Errorf("%w: unsupported engine %q", ErrInvalidValue, cfg.Engine)
}

type hashidsCodec struct {
	h *hashids.HashID
}

func newHashidsCodec(cfg Config) (*hashidsCodec, error) {
	hd := hashids.NewData()
	hd.Salt = cfg.Salt
	hd.MinLength = cfg.Length
	hd.Alphabet = cfg.Alphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("hashids: %w", err)
	}
	return &hashidsCodec{h: h}, nil
}

func (c *hashidsCodec) Encode(numbers []uint64) (string, error) {
	ns := make([]int64, len(numbers))
	for i, n := range numbers {
		if n > math.MaxInt64 {
			return "", fmt.Errorf("%w: %d is out of range", ErrInvalidValue, n)
		}
		ns[i] = int64(n)
	}
	return c.h.EncodeInt64(ns)
}

func (c *hashidsCodec) Decode(hash string) ([]uint64, error) {
	ns, err := c.h.DecodeInt64WithError(hash)
	if err != nil || len(ns) == 0 {
		return nil, ErrUndecodable
	}
	numbers := make([]uint64, len(ns))
	for i, n := range ns {
		if n < 0 {
			return nil, ErrUndecodable
		}
		numbers[i] = uint64(n)
	}
	return numbers, nil
}

// sqidsCodec has no native salt, so the salt permutes the alphabet
// before sqids sees it.
type sqidsCodec struct {
	s *sqids.Sqids
}

func newSqidsCodec(cfg Config) (*sqidsCodec, error) {
	alphabet := saltedAlphabet(cfg.Alphabet, cfg.Salt)
	length := cfg.Length
	s, err := sqids.NewCustom(sqids.Options{
		MinLength: &length,
		Alphabet:  &alphabet,
	})
	if err != nil {
		return nil, fmt.Errorf("sqids: %w", err)
	}
	return &sqidsCodec{s: s}, nil
}

func (c *sqidsCodec) Encode(numbers []uint64) (string, error) {
	return c.s.Encode(numbers)
}

func (c *sqidsCodec) Decode(hash string) ([]uint64, error) {
	numbers := c.s.Decode(hash)
	if len(numbers) == 0 {
		return nil, ErrUndecodable
	}
	// sqids accepts non-canonical ids, only the canonical one round-trips
	canonical, err := c.s.Encode(numbers)
	if err != nil || canonical != hash {
		return nil, ErrUndecodable
	}
	return numbers, nil
}

func saltedAlphabet(alphabet, salt string) string {
	if salt == "" {
		return alphabet
	}
	a := []rune(alphabet)
	sr := []rune(salt)
	for i, v, p := len(a)-1, 0, 0; i > 0; i-- {
		n := int(sr[v])
		p += n
		j := (n + v + p) % i
		a[i], a[j] = a[j], a[i]
		v = (v + 1) % len(sr)
	}
	return string(a)
}
