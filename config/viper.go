package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhAnik/modelhashid/hashid"
	"github.com/spf13/viper"
)

const (
	viperSection    = "hashid"
	viperGenerators = "generators"
)

// LoadViper applies the "hashid" section of v to store:
//
//	hashid:
//	  salt: pepper
//	  length: 10
//	  generators:
//	    User:
//	      prefix: usr
//
// viper folds keys to lower case, model names match case-insensitively.
func LoadViper(v *viper.Viper, store *hashid.Store) error {
	section := v.Sub(viperSection)
	if section == nil {
		return nil
	}
	global := make(map[string]string)
	for _, key := range section.AllKeys() {
		if isGeneratorKey(key) {
			continue
		}
		global[key] = section.GetString(key)
	}
	if err := applyMap(store, "", global); err != nil {
		return fmt.Errorf("hashid config: %w", err)
	}

	generators := section.GetStringMap(viperGenerators)
	for model := range generators {
		values := section.GetStringMapString(viperGenerators + "." + model)
		if err := applyMap(store, model, values); err != nil {
			return fmt.Errorf("hashid config for %s: %w", model, err)
		}
	}
	slog.Info("hashid config loaded", slog.String("file", v.ConfigFileUsed()), slog.Int("generators", len(generators)))
	return nil
}

func isGeneratorKey(key string) bool {
	return strings.HasPrefix(key, viperGenerators+".")
}
