package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "usersctl.toml")
	body := fmt.Sprintf("tabular_backend = \"workbook\"\nworkbook_path = %q\nlog_level = \"error\"\n",
		filepath.Join(dir, "blocks.xlsx"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(OpenBackend)
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateAndGet_Workbook(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "s3cret\n", "-c", cfg, "create", "-u", "alice", "-e", "alice@example.com", "--password-stdin")
	require.NoError(t, err)
	assert.Equal(t, "created user 1 (alice)\n", out)

	out, err = run(t, "hunter2", "-c", cfg, "create", "-u", "bob", "-e", "bob@example.com", "--password-stdin")
	require.NoError(t, err)
	assert.Equal(t, "created user 2 (bob)\n", out)

	out, err = run(t, "", "-c", cfg, "get", "--username", "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nusername: alice\n", out)

	out, err = run(t, "", "-c", cfg, "get", "--id", "2")
	require.NoError(t, err)
	assert.Equal(t, "id: 2\nusername: bob\n", out)
}

func TestCreate_Duplicate(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "pw\n", "-c", cfg, "create", "-u", "alice", "-e", "a@example.com", "--password-stdin")
	require.NoError(t, err)

	_, err = run(t, "pw\n", "-c", cfg, "create", "-u", "Alice", "-e", "b@example.com", "--password-stdin")
	assert.EqualError(t, err, `username "Alice" already exists`)
}

func TestCreate_PromptsForPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	called := false
	readPassword = func(int) ([]byte, error) {
		called = true
		return []byte("typed"), nil
	}

	out, err := run(t, "", "-c", writeConfig(t), "create", "-u", "carol", "-e", "carol@example.com")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "created user 1 (carol)\n", out)
}

func TestCreate_PasswordReadError(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }

	_, err := run(t, "", "-c", writeConfig(t), "create", "-u", "carol", "-e", "carol@example.com")
	assert.ErrorContains(t, err, "read password: not a terminal")
}

func TestCreate_EmptyStdin(t *testing.T) {
	_, err := run(t, "", "-c", writeConfig(t), "create", "-u", "dave", "-e", "dave@example.com", "--password-stdin")
	assert.ErrorContains(t, err, "read password")
}

func TestCreate_ValidationError(t *testing.T) {
	_, err := run(t, "pw\n", "-c", writeConfig(t), "create", "-u", "erin", "-e", "not-an-email", "--password-stdin")
	assert.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	_, err := run(t, "", "-c", writeConfig(t), "get", "--id", "7")
	assert.EqualError(t, err, "user not found")
}

func TestGet_FlagRules(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "", "-c", cfg, "get")
	assert.Error(t, err)

	_, err = run(t, "", "-c", cfg, "get", "--id", "1", "--username", "x")
	assert.Error(t, err)
}

func TestOpenError(t *testing.T) {
	cmd := NewRootCommand(func(context.Context, string) (*Backend, error) {
		return nil, errors.New("store down")
	})
	cmd.SetArgs([]string{"get", "--id", "1"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.EqualError(t, cmd.ExecuteContext(context.Background()), "store down")
}

func TestOpenBackend_BadConfig(t *testing.T) {
	_, err := OpenBackend(context.Background(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
