package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/burgrp-go/flhash/pkg/registry"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func gameData(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ships", "shiparch.ini"), "[Ship]\nnickname = li_elite\n\n[Ship]\nnickname = ge_fighter\n")
	writeFile(t, filepath.Join(root, "equipment", "select_equip.ini"), "[Commodity]\nnickname = commodity_gold\n")
	writeFile(t, filepath.Join(root, "missions", "faction_prop.ini"), "[FactionProps]\naffiliation = li_n_grp\n")
	return root
}

// run executes the root command with isolated configuration.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envConfig, "")
	t.Setenv(envDirectory, "")

	cmd := GetRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	out, err := run(t, "", "hash", "li_elite", "LI_FIGHTER")
	require.NoError(t, err)
	assert.Equal(t, "li_elite\t3074863431\t0xB746B147\nLI_FIGHTER\t2650442112\t0x9DFA8980\n", out)
}

func TestHashCommandSigned(t *testing.T) {
	out, err := run(t, "", "hash", "--signed", "li_elite")
	require.NoError(t, err)
	assert.Equal(t, "li_elite\t3074863431\t0xB746B147\t-1220103865\n", out)
}

func TestHashCommandEmpty(t *testing.T) {
	_, err := run(t, "", "hash", "")
	require.Error(t, err)

	_, err = run(t, "", "hash")
	require.Error(t, err)
}

func TestFactionCommand(t *testing.T) {
	out, err := run(t, "", "faction", "li_n_grp", "rh_p_grp")
	require.NoError(t, err)
	assert.Equal(t, "li_n_grp\t8778\t0x224A\nrh_p_grp\t55100\t0xD73C\n", out)
}

func TestLookupCommand(t *testing.T) {
	root := gameData(t)

	out, err := run(t, "", "lookup", "--dir", root, "3074863431", "0x224A", "0", "junk")
	require.NoError(t, err)
	assert.Equal(t, "3074863431\tli_elite\n0x224A\tli_n_grp\n0\tnot found\njunk\tnot found\n", out)
}

func TestLookupCommandStdin(t *testing.T) {
	root := gameData(t)

	out, err := run(t, "2151746432\n\n2866206539\n", "lookup", "-d", root)
	require.NoError(t, err)
	assert.Equal(t, "2151746432\tge_fighter\n2866206539\tcommodity_gold\n", out)
}

func TestLookupRequiresDirectory(t *testing.T) {
	_, err := run(t, "", "lookup", "1")
	require.ErrorContains(t, err, "data directory is required")
}

func TestLookupMissingDirectory(t *testing.T) {
	_, err := run(t, "", "lookup", "--dir", filepath.Join(t.TempDir(), "missing"), "1")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestListCommand(t *testing.T) {
	root := gameData(t)

	out, err := run(t, "", "list", "--dir", root, "--meta", "ELITE", "grp")
	require.NoError(t, err)
	assert.Equal(t, "8778\t0x224A\tli_n_grp\n3074863431\t0xB746B147\tli_elite\n", out)

	out, err = run(t, "", "list", "--dir", root, "--kind", "faction")
	require.NoError(t, err)
	assert.Equal(t, "8778\t0x224A\tli_n_grp \t[faction missions/faction_prop.ini]\n", out)

	_, err = run(t, "", "list", "--dir", root, "--kind", "ship")
	require.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	root := gameData(t)

	out, err := run(t, "", "dump", "--dir", root, "--format", "json")
	require.NoError(t, err)

	var records []registry.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 4)
	assert.Equal(t, "li_n_grp", records[0].Nickname)

	path := filepath.Join(t.TempDir(), "registry.cbor")
	_, err = run(t, "", "dump", "--dir", root, "-f", "cbor", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records = nil
	require.NoError(t, cbor.Unmarshal(data, &records))
	require.Len(t, records, 4)

	_, err = run(t, "", "dump", "--dir", root, "--format", "xml")
	require.ErrorIs(t, err, registry.ErrUnknownFormat)
}

func TestConfigFile(t *testing.T) {
	root := gameData(t)
	writeFile(t, filepath.Join(root, "backup", "old.ini"), "[Ship]\nnickname = old_ship\n")
	writeFile(t, filepath.Join(root, "factions.ini"), "[FactionProps]\naffiliation = li_p_grp\n")

	config := filepath.Join(t.TempDir(), "flhash.toml")
	writeFile(t, config, `directory = "`+filepath.ToSlash(root)+`"
exclude = ["backup"]
faction_file = "factions.ini"
`)

	out, err := run(t, "", "list", "--config", config, "--meta")
	require.NoError(t, err)
	assert.Contains(t, out, "li_p_grp")
	assert.Contains(t, out, "li_elite")
	assert.NotContains(t, out, "old_ship")
	// faction_prop.ini is an ordinary file now and has no nickname keys
	assert.NotContains(t, out, "li_n_grp")
}

func TestConfigFileUnknownKey(t *testing.T) {
	config := filepath.Join(t.TempDir(), "flhash.toml")
	writeFile(t, config, "dirctory = \"/tmp\"\n")

	_, err := run(t, "", "lookup", "--config", config, "1")
	require.Error(t, err)
}

func TestConfigFileMissing(t *testing.T) {
	_, err := run(t, "", "lookup", "--config", filepath.Join(t.TempDir(), "none.toml"), "1")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvironmentDirectory(t *testing.T) {
	root := gameData(t)

	cmd := GetRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"lookup", "3074863431"})
	t.Setenv(envConfig, "")
	t.Setenv(envDirectory, root)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "3074863431\tli_elite\n", out.String())
}

func TestWatchCommand(t *testing.T) {
	root := gameData(t)
	t.Setenv(envConfig, "")
	t.Setenv(envDirectory, "")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cmd := GetRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"watch", "--dir", root, "--debounce", "10ms"})

	require.NoError(t, cmd.ExecuteContext(ctx))
}

func TestWatchStayStopsReading(t *testing.T) {
	ignore := goleak.IgnoreCurrent()
	root := gameData(t)
	t.Setenv(envConfig, "")
	t.Setenv(envDirectory, "")

	stdin, input := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := GetRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetIn(stdin)
	cmd.SetArgs([]string{"watch", "--stay", "--dir", root, "--debounce", "10ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	_, err := io.WriteString(input, "3074863431\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}

	// A line arriving after shutdown must not strand the stdin reader.
	written := make(chan struct{})
	go func() {
		_, _ = io.WriteString(input, "3074863431\n")
		close(written)
	}()
	select {
	case <-written:
	case <-time.After(100 * time.Millisecond):
	}
	require.NoError(t, stdin.Close())
	<-written

	goleak.VerifyNone(t, ignore)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
