package hashid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nhAnik/modelhashid/internal/util"
)

var ErrMalformedHashID = errors.New("malformed hash id")

// ParsedModelHashID is a hash ID split into its parts. ModelName is empty
// when the prefix does not belong to a registered model type.
type ParsedModelHashID struct {
	Prefix       string
	Separator    string
	HashIDForKey string
	ModelName    string
}

// Generator encodes and decodes model hash IDs with the options of a Store.
type Generator struct {
	store  *Store
	codecs *codecCache

	mu     sync.RWMutex
	models map[string]string
}

func NewGenerator(store *Store) *Generator {
	if store == nil {
		store = Default
	}
	return &Generator{
		store:  store,
		codecs: newCodecCache(),
		models: make(map[string]string),
	}
}

func (g *Generator) Store() *Store {
	return g.store
}

// Register makes model known to Parse.
func (g *Generator) Register(model string) {
	g.mu.Lock()
	g.models[modelKey(model)] = model
	g.mu.Unlock()
}

// Models returns the registered model names, sorted.
func (g *Generator) Models() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.models))
	for _, name := range g.models {
		names = append(names, name)
	}
	g.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (g *Generator) Config(model string) (Config, error) {
	return g.store.Resolve(model)
}

// Prefix returns the prefix hash IDs of model start with.
func (g *Generator) Prefix(model string) (string, error) {
	cfg, err := g.store.Resolve(model)
	if err != nil {
		return "", err
	}
	return prefixFor(model, cfg), nil
}

func prefixFor(model string, cfg Config) string {
	if cfg.Prefix != "" {
		return cfg.Prefix
	}
	p := model
	if cfg.PrefixLength >= 0 {
		if runes := []rune(model); len(runes) > cfg.PrefixLength {
			p = string(runes[:cfg.PrefixLength])
		}
	}
	return util.ToCase(p, cfg.PrefixCase)
}

// Encode builds the hash ID of numbers for model.
func (g *Generator) Encode(model string, numbers []uint64) (string, error) {
	cfg, err := g.store.Resolve(model)
	if err != nil {
		return "", err
	}
	codec, err := g.codecs.get(cfg)
	if err != nil {
		return "", err
	}
	body, err := codec.Encode(numbers)
	if err != nil {
		return "", fmt.Errorf("encode %s key: %w", model, err)
	}
	return prefixFor(model, cfg) + cfg.Separator + body, nil
}

// Decode reverses the body part of a hash ID of model. It reports false
// instead of failing when body is not a valid hash.
func (g *Generator) Decode(model, body string) ([]uint64, bool) {
	if body == "" {
		return nil, false
	}
	cfg, err := g.store.Resolve(model)
	if err != nil {
		return nil, false
	}
	codec, err := g.codecs.get(cfg)
	if err != nil {
		return nil, false
	}
	numbers, err := codec.Decode(body)
	if err != nil {
		return nil, false
	}
	return numbers, true
}

type parseCandidate struct {
	model  string
	prefix string
	sep    string
}

func (c parseCandidate) lead() string {
	return c.prefix + c.sep
}

// Parse splits hashID into prefix, separator and body. Registered model
// prefixes are tried first, longest first; otherwise the global
// prefix_length and separator decide the split. ModelName stays empty when
// several registered models share the matching prefix and separator.
func (g *Generator) Parse(hashID string) (*ParsedModelHashID, error) {
	var candidates []parseCandidate
	for _, model := range g.Models() {
		cfg, err := g.store.Resolve(model)
		if err != nil {
			continue
		}
		candidates = append(candidates, parseCandidate{
			model:  model,
			prefix: prefixFor(model, cfg),
			sep:    cfg.Separator,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].lead()) > len(candidates[j].lead())
	})
	for i, c := range candidates {
		lead := c.lead()
		if len(hashID) <= len(lead) || !strings.HasPrefix(hashID, lead) {
			continue
		}
		parsed := &ParsedModelHashID{
			Prefix:       c.prefix,
			Separator:    c.sep,
			HashIDForKey: hashID[len(lead):],
			ModelName:    c.model,
		}
		// models sharing prefix and separator cannot be told apart
		for _, other := range candidates[i+1:] {
			if other.prefix == c.prefix && other.sep == c.sep {
				parsed.ModelName = ""
				break
			}
		}
		return parsed, nil
	}

	cfg, err := g.store.Resolve("")
	if err != nil {
		return nil, err
	}
	prefix, body, ok := splitHashID(hashID, cfg.PrefixLength, cfg.Separator)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHashID, hashID)
	}
	return &ParsedModelHashID{Prefix: prefix, Separator: cfg.Separator, HashIDForKey: body}, nil
}

// ParseFor splits hashID using the prefix and separator of model and
// fails when hashID does not carry them.
func (g *Generator) ParseFor(model, hashID string) (*ParsedModelHashID, error) {
	cfg, err := g.store.Resolve(model)
	if err != nil {
		return nil, err
	}
	prefix := prefixFor(model, cfg)
	lead := prefix + cfg.Separator
	if len(hashID) <= len(lead) || !strings.HasPrefix(hashID, lead) {
		return nil, fmt.Errorf("%w: %q is not a %s hash id", ErrMalformedHashID, hashID, model)
	}
	return &ParsedModelHashID{
		Prefix:       prefix,
		Separator:    cfg.Separator,
		HashIDForKey: hashID[len(lead):],
		ModelName:    model,
	}, nil
}

func splitHashID(hashID string, prefixLength int, sep string) (string, string, bool) {
	var prefix, rest string
	if prefixLength < 0 {
		if sep == "" {
			return "", "", false
		}
		i := strings.Index(hashID, sep)
		if i < 0 {
			return "", "", false
		}
		prefix, rest = hashID[:i], hashID[i:]
	} else {
		runes := []rune(hashID)
		if len(runes) < prefixLength {
			return "", "", false
		}
		prefix, rest = string(runes[:prefixLength]), string(runes[prefixLength:])
	}
	if !strings.HasPrefix(rest, sep) {
		return "", "", false
	}
	body := rest[len(sep):]
	return prefix, body, body != ""
}
