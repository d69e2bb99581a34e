// Package config fills a hashid.Store from the environment, a viper
// configuration or a redis hash shared between processes.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/nhAnik/modelhashid/hashid"
)

// ApplyString parses raw for opt and stores it globally, or for model when
// model is not empty.
func ApplyString(store *hashid.Store, model string, opt hashid.Option, raw string) error {
	var value any = raw
	if opt == hashid.Length || opt == hashid.PrefixLength {
		raw = strings.TrimSpace(raw)
		if !govalidator.IsInt(raw) {
			return fmt.Errorf("%w: %s must be an integer, got %q", hashid.ErrInvalidValue, opt, raw)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", hashid.ErrInvalidValue, opt, err)
		}
		value = n
	}
	if model == "" {
		return store.Set(opt, value)
	}
	return store.SetFor(model, opt, value)
}

func lookupOption(name string) (hashid.Option, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, opt := range hashid.Options {
		if string(opt) == name {
			return opt, true
		}
	}
	return "", false
}

func applyMap(store *hashid.Store, model string, values map[string]string) error {
	for name, raw := range values {
		opt, ok := lookupOption(name)
		if !ok {
			return fmt.Errorf("%w: %q", hashid.ErrUnknownOption, name)
		}
		if err := ApplyString(store, model, opt, raw); err != nil {
			return err
		}
	}
	return nil
}
