package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestEncodeDecode(t *testing.T) {
	hashID, err := run(t, "encode", "42", "--model", "User")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashID, "use_"), hashID)

	key, err := run(t, "decode", hashID, "--model", "User")
	require.NoError(t, err)
	assert.Equal(t, "42", key)
}

func TestEncodeDecodeUUID(t *testing.T) {
	id := uuid.New()
	hashID, err := run(t, "encode", id.String(), "-m", "Document")
	require.NoError(t, err)

	key, err := run(t, "decode", hashID, "-m", "Document")
	require.NoError(t, err)
	assert.Equal(t, id.String(), key)
}

func TestDecodeNotFound(t *testing.T) {
	_, err := run(t, "decode", "non-existing-hash-id", "--model", "User")
	assert.ErrorIs(t, err, errNotFound)
}

func TestEncodeRequiresModel(t *testing.T) {
	_, err := run(t, "encode", "1")
	assert.ErrorContains(t, err, "--model is required")

	_, err = run(t, "encode", "one", "--model", "User")
	assert.ErrorContains(t, err, "neither an integer nor a UUID")
}

func TestConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hashid.yaml")
	yaml := "hashid:\n  length: 6\n  generators:\n    User:\n      prefix: acct\n      separator: \"-\"\n"
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o600))

	hashID, err := run(t, "encode", "1", "--model", "User", "--config", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashID, "acct-"), hashID)
	assert.Len(t, hashID, len("acct-")+6)

	parsed, err := run(t, "parse", hashID, "--model", "User", "--config", file)
	require.NoError(t, err)
	assert.Contains(t, parsed, "prefix:    acct")
	assert.Contains(t, parsed, "model:     User")

	cfg, err := run(t, "config", "--model", "User", "--config", file)
	require.NoError(t, err)
	assert.Contains(t, cfg, `length=6`)
	assert.Contains(t, cfg, `prefix="acct"`)
}

func TestLookupRequiresDSN(t *testing.T) {
	_, err := run(t, "lookup", "use_abc", "--model", "User", "--table", "user_table")
	assert.ErrorContains(t, err, "--dsn and --table are required")
}
