package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nhAnik/modelhashid/hashid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyString(t *testing.T) {
	store := hashid.NewStore()

	require.NoError(t, ApplyString(store, "", hashid.Length, " 21 "))
	require.NoError(t, ApplyString(store, "", hashid.PrefixLength, "-1"))
	require.NoError(t, ApplyString(store, "User", hashid.Prefix, "usr"))
	assert.Equal(t, 21, store.Get(hashid.Length))
	assert.Equal(t, -1, store.Get(hashid.PrefixLength))
	assert.Equal(t, "usr", store.GetFor("User", hashid.Prefix))

	err := ApplyString(store, "", hashid.Length, "ten")
	assert.ErrorIs(t, err, hashid.ErrInvalidValue)
	err = ApplyString(store, "", hashid.Prefix, "usr")
	assert.ErrorIs(t, err, hashid.ErrModelOnlyOption)
}

// unsetenv registers key for restoration and removes it for the test.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadEnv(t *testing.T) {
	for _, opt := range hashid.Options {
		unsetenv(t, EnvName(opt))
	}
	t.Setenv("HASHID_SALT", "from-env")

	dotenv := filepath.Join(t.TempDir(), ".env")
	content := "HASHID_SALT=from-file\nHASHID_LENGTH=9\nHASHID_SEPARATOR=-\n"
	require.NoError(t, os.WriteFile(dotenv, []byte(content), 0o600))

	store := hashid.NewStore()
	require.NoError(t, LoadEnv(store, dotenv))

	assert.Equal(t, "from-env", store.Get(hashid.Salt), "process env wins over .env")
	assert.Equal(t, 9, store.Get(hashid.Length))
	assert.Equal(t, "-", store.Get(hashid.Separator))
	assert.Equal(t, hashid.DefaultAlphabet, store.Get(hashid.Alphabet))
}

func TestLoadEnvMissingFile(t *testing.T) {
	for _, opt := range hashid.Options {
		unsetenv(t, EnvName(opt))
	}
	t.Setenv("HASHID_ENGINE", "sqids")

	store := hashid.NewStore()
	require.NoError(t, LoadEnv(store, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, hashid.EngineSqids, store.Get(hashid.Engine))
}

func TestLoadEnvInvalidValue(t *testing.T) {
	for _, opt := range hashid.Options {
		unsetenv(t, EnvName(opt))
	}
	t.Setenv("HASHID_PREFIX_CASE", "shouty")

	err := LoadEnv(hashid.NewStore(), filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, hashid.ErrInvalidValue)
}

const viperYAML = `
hashid:
  salt: pepper
  length: 10
  prefix_case: upper
  generators:
    User:
      prefix: usr
      separator: "-"
    Post:
      length: 6
`

func TestLoadViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(viperYAML)))

	store := hashid.NewStore()
	require.NoError(t, LoadViper(v, store))

	user, err := store.Resolve("User")
	require.NoError(t, err)
	assert.Equal(t, "pepper", user.Salt)
	assert.Equal(t, 10, user.Length)
	assert.Equal(t, "usr", user.Prefix)
	assert.Equal(t, "-", user.Separator)

	post, err := store.Resolve("Post")
	require.NoError(t, err)
	assert.Equal(t, 6, post.Length)
	assert.Equal(t, "upper", post.PrefixCase)
}

func TestLoadViperUnknownOption(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString("hashid:\n  pepper: 1\n")))

	err := LoadViper(v, hashid.NewStore())
	assert.ErrorIs(t, err, hashid.ErrUnknownOption)
}

func TestLoadViperWithoutSection(t *testing.T) {
	assert.NoError(t, LoadViper(viper.New(), hashid.NewStore()))
}

type fakeRedis struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	err    error
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewMapStringStringCmd(ctx, "hgetall", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	values := f.hashes[key]
	if values == nil {
		values = map[string]string{}
	}
	cmd.SetVal(values)
	return cmd
}

func TestLoadRedis(t *testing.T) {
	client := &fakeRedis{hashes: map[string]map[string]string{
		DefaultRedisKey:           {"salt": "shared", "length": "12"},
		DefaultRedisKey + ":User": {"prefix": "u", "engine": "sqids"},
	}}

	store := hashid.NewStore()
	require.NoError(t, LoadRedis(context.Background(), client, store, "", "User", "Post"))

	user, err := store.Resolve("User")
	require.NoError(t, err)
	assert.Equal(t, "shared", user.Salt)
	assert.Equal(t, 12, user.Length)
	assert.Equal(t, "u", user.Prefix)
	assert.Equal(t, hashid.EngineSqids, user.Engine)

	post, err := store.Resolve("Post")
	require.NoError(t, err)
	assert.Equal(t, hashid.EngineHashids, post.Engine)
}

func TestLoadRedisErrors(t *testing.T) {
	boom := errors.New("connection refused")
	err := LoadRedis(context.Background(), &fakeRedis{err: boom}, hashid.NewStore(), "")
	assert.ErrorIs(t, err, boom)

	client := &fakeRedis{hashes: map[string]map[string]string{
		"custom": {"length": "long"},
	}}
	err = LoadRedis(context.Background(), client, hashid.NewStore(), "custom")
	assert.ErrorIs(t, err, hashid.ErrInvalidValue)
}
