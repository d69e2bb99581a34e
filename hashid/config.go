package hashid

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/hashicorp/go-multierror"
	"github.com/nhAnik/modelhashid/internal/util"
)

// Option names a configuration setting of the hash ID generator.
type Option string

const (
	Salt         Option = "salt"
	Length       Option = "length"
	Alphabet     Option = "alphabet"
	PrefixLength Option = "prefix_length"
	PrefixCase   Option = "prefix_case"
	Separator    Option = "separator"
	Prefix       Option = "prefix"
	Engine       Option = "engine"
)

// Options lists every recognized option.
var Options = []Option{Salt, Length, Alphabet, PrefixLength, PrefixCase, Separator, Prefix, Engine}

const (
	EngineHashids = "hashids"
	EngineSqids   = "sqids"
)

const (
	DefaultSalt         = ""
	DefaultLength       = 13
	DefaultAlphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
	DefaultPrefixLength = 3
	DefaultPrefixCase   = util.CaseLower
	DefaultSeparator    = "_"
	DefaultEngine       = EngineHashids

	minAlphabetLength = 16
)

var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrInvalidValue    = errors.New("invalid option value")
	ErrModelOnlyOption = errors.New("option can only be set for a model")
)

// Config is the effective configuration of one model type.
type Config struct {
	Salt         string
	Length       int
	Alphabet     string
	PrefixLength int
	PrefixCase   string
	Separator    string
	Prefix       string
	Engine       string
}

func defaultValue(opt Option) any {
	switch opt {
	case Salt:
		return DefaultSalt
	case Length:
		return DefaultLength
	case Alphabet:
		return DefaultAlphabet
	case PrefixLength:
		return DefaultPrefixLength
	case PrefixCase:
		return DefaultPrefixCase
	case Separator:
		return DefaultSeparator
	case Prefix:
		return ""
	case Engine:
		return DefaultEngine
	}
	return nil
}

func isIntOption(opt Option) bool {
	return opt == Length || opt == PrefixLength
}

// checkValue normalizes value to the option's type and validates its range.
func checkValue(opt Option, value any) (any, error) {
	if defaultValue(opt) == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, opt)
	}
	if isIntOption(opt) {
		n, ok := toInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidValue, opt, value)
		}
		if err := checkInt(opt, n); err != nil {
			return nil, err
		}
		return n, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidValue, opt, value)
	}
	if err := checkString(opt, s); err != nil {
		return nil, err
	}
	return s, nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	}
	return 0, false
}

func checkInt(opt Option, n int) error {
	switch opt {
	case Length:
		if n < 0 {
			return fmt.Errorf("%w: length must not be negative", ErrInvalidValue)
		}
	case PrefixLength:
		if n < -1 {
			return fmt.Errorf("%w: prefix_length must be -1 or more", ErrInvalidValue)
		}
	}
	return nil
}

func checkString(opt Option, s string) error {
	switch opt {
	case Alphabet:
		if govalidator.HasWhitespace(s) {
			return fmt.Errorf("%w: alphabet cannot contain whitespace", ErrInvalidValue)
		}
		if n := distinctRunes(s); n < minAlphabetLength {
			return fmt.Errorf("%w: alphabet needs at least %d distinct characters, got %d",
				ErrInvalidValue, minAlphabetLength, n)
		}
		if distinctRunes(s) != utf8.RuneCountInString(s) {
			return fmt.Errorf("%w: alphabet characters must be unique", ErrInvalidValue)
		}
	case PrefixCase:
		if !util.IsCase(s) {
			return fmt.Errorf("%w: unsupported prefix_case %q", ErrInvalidValue, s)
		}
	case Engine:
		if s != EngineHashids && s != EngineSqids {
			return fmt.Errorf("%w: unsupported engine %q", ErrInvalidValue, s)
		}
	}
	return nil
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// Validate reports every invalid field of c.
func (c Config) Validate() error {
	var result *multierror.Error
	checks := []struct {
		opt   Option
		value any
	}{
		{Length, c.Length},
		{Alphabet, c.Alphabet},
		{PrefixLength, c.PrefixLength},
		{PrefixCase, c.PrefixCase},
		{Separator, c.Separator},
		{Engine, c.Engine},
	}
	for _, check := range checks {
		if _, err := checkValue(check.opt, check.value); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if c.Engine == EngineSqids && len(c.Alphabet) != utf8.RuneCountInString(c.Alphabet) {
		result = multierror.Append(result,
			fmt.Errorf("%w: the sqids engine needs a single-byte alphabet", ErrInvalidValue))
	}
	return result.ErrorOrNil()
}

func (c *Config) apply(opt Option, value any) {
	switch opt {
	case Salt:
		c.Salt = value.(string)
	case Length:
		c.Length = value.(int)
	case Alphabet:
		c.Alphabet = value.(string)
	case PrefixLength:
		c.PrefixLength = value.(int)
	case PrefixCase:
		c.PrefixCase = value.(string)
	case Separator:
		c.Separator = value.(string)
	case Prefix:
		c.Prefix = value.(string)
	case Engine:
		c.Engine = value.(string)
	}
}
