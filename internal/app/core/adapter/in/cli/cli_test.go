package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newShellLedger(t *testing.T) (*usecase.CoreUseCase, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bank.data")
	store, err := memory.NewAccountStore(context.Background(), file.NewRepository(path), nil)
	require.NoError(t, err)
	return usecase.NewCoreUseCase(store), path
}

func runShell(t *testing.T, ledger Ledger, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, NewShell(ledger, strings.NewReader(input), &out).Run(context.Background()))
	return out.String()
}

func TestShell_JaneDoeScenario(t *testing.T) {
	core, _ := newShellLedger(t)
	out := runShell(t, core, strings.Join([]string{
		"1", "Jane", "Doe", "1000.0",
		"4", "1", "400",
		"4", "1", "200",
		"2", "1",
		"7",
	}, "\n")+"\n")

	assert.Contains(t, out, "*** BANKING SYSTEM ***")
	assert.Contains(t, out, "Account Created Successfully!")
	assert.Contains(t, out, "First Name: Jane\nLast Name : Doe\nAccount No: 1\nBalance   : 1000\n")
	assert.Contains(t, out, "Balance   : 600\n")
	assert.Contains(t, out, "Error: Insufficient balance to withdraw.")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))
	assert.NotContains(t, out, "Balance   : 400")
}

func TestShell_ListAndClose(t *testing.T) {
	core, _ := newShellLedger(t)
	out := runShell(t, core, strings.Join([]string{
		"1", "Mary Ann", "Smith", "900",
		"1", "John", "Doe", "700",
		"5", "1",
		"6",
		"7",
	}, "\n")+"\n")

	assert.Contains(t, out, "Account Deleted:\nFirst Name: Mary Ann\n")
	assert.Equal(t, 1, strings.Count(out, separator))
	listing := out[strings.Index(out, separator):]
	assert.Contains(t, listing, "First Name: John\nLast Name : Doe\nAccount No: 2\n")
}

func TestShell_InvalidInput(t *testing.T) {
	core, _ := newShellLedger(t)
	out := runShell(t, core, "abc\n9\n3\n1\nten\n2\n42\n7\n")

	assert.Equal(t, 2, strings.Count(out, "Invalid choice!"))
	assert.Contains(t, out, "Error: invalid input")
	assert.Contains(t, out, "Error: Account not found.")
}

func TestShell_EOFExits(t *testing.T) {
	core, _ := newShellLedger(t)

	out := runShell(t, core, "6\n")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))

	// 輸入在提示中途結束
	out = runShell(t, core, "1\nJane\n")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))
	assert.NotContains(t, out, "Account Created Successfully!")
}

func TestShell_PersistsOnExit(t *testing.T) {
	core, path := newShellLedger(t)
	runShell(t, core, "1\nJane\nDoe\n1000\n7\n")
	require.NoError(t, core.Close(context.Background()))

	accounts, err := file.NewRepository(path).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Jane", accounts[0].FirstName())
}

func writeConfig(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yml := fmt.Sprintf(`store:
  backend: file
  data_file: %s
journal:
  enabled: true
  path: %s
log:
  level: error
`, filepath.Join(dir, "Bank.data"), filepath.Join(dir, "journal.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(yml), 0o600))

	out := new(bytes.Buffer)
	return &Env{ConfigPath: cfgPath, In: strings.NewReader(""), Out: out, Err: io.Discard}, out
}

func execute(t *testing.T, env *Env, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("bank", flag.ContinueOnError)
	cdr := subcommands.NewCommander(fs, "bank")
	cdr.Output = io.Discard
	cdr.Error = io.Discard
	Register(cdr, env)
	require.NoError(t, fs.Parse(args))
	return cdr.Execute(context.Background())
}

func TestCommands_AccountLifecycle(t *testing.T) {
	env, out := writeConfig(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "open", "Jane", "Doe", "1000"))
	assert.Contains(t, out.String(), "Account No: 1")

	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "open", "John", "Doe", "800"))
	assert.Contains(t, out.String(), "Account No: 2")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "deposit", "1", "250.5"))
	assert.Contains(t, out.String(), "Balance   : 1250.5")

	out.Reset()
	assert.Equal(t, subcommands.ExitFailure, execute(t, env, "withdraw", "2", "301"))
	assert.Contains(t, out.String(), "Error: Insufficient balance to withdraw.")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "withdraw", "2", "300"))
	assert.Contains(t, out.String(), "Balance   : 500")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "list"))
	assert.Equal(t, 2, strings.Count(out.String(), separator))
	assert.Less(t, strings.Index(out.String(), "Account No: 1"), strings.Index(out.String(), "Account No: 2"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "history", "1"))
	assert.Contains(t, out.String(), "open")
	assert.Contains(t, out.String(), "deposit")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "close", "1"))
	assert.Contains(t, out.String(), "Account Deleted:")

	out.Reset()
	assert.Equal(t, subcommands.ExitFailure, execute(t, env, "balance", "1"))
	assert.Contains(t, out.String(), "Error: Account not found.")
}

func TestCommands_UsageErrors(t *testing.T) {
	env, out := writeConfig(t)

	assert.Equal(t, subcommands.ExitUsageError, execute(t, env, "open", "Jane"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, env, "deposit", "1"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, env, "list", "extra"))

	assert.Equal(t, subcommands.ExitFailure, execute(t, env, "balance", "abc"))
	assert.Contains(t, out.String(), "Error: invalid input")
}

func TestCommands_Shell(t *testing.T) {
	env, out := writeConfig(t)
	env.In = strings.NewReader("1\nJane\nDoe\n1000\n7\n")
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "shell"))
	assert.Contains(t, out.String(), "Account Created Successfully!")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, env, "balance", "1"))
	assert.Contains(t, out.String(), "First Name: Jane")
}
