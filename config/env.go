package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nhAnik/modelhashid/hashid"
)

const envPrefix = "HASHID_"

// EnvName returns the environment variable that carries opt.
func EnvName(opt hashid.Option) string {
	return envPrefix + strings.ToUpper(string(opt))
}

// LoadEnv loads the given .env files, or ./.env when none are given, and
// applies every HASHID_* variable to the global layer of store. A missing
// .env file is not an error.
func LoadEnv(store *hashid.Store, filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		slog.Info("no .env file loaded", slog.Any("error", err))
	}
	applied := 0
	for _, opt := range hashid.Options {
		if opt == hashid.Prefix {
			continue
		}
		raw, ok := os.LookupEnv(EnvName(opt))
		if !ok {
			continue
		}
		if err := ApplyString(store, "", opt, raw); err != nil {
			return err
		}
		applied++
	}
	slog.Info("hashid config loaded from environment", slog.Int("options", applied))
	return nil
}
