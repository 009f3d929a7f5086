// Package cli 提供帳本的命令列介面：互動式選單與一次性子命令
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/bootstrap"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
)

// Env 子命令共用的執行環境
type Env struct {
	ConfigPath string
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
}

// Register 註冊所有子命令
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&shellCmd{env: env}, "")
	c.Register(&openCmd{env: env}, "accounts")
	c.Register(&balanceCmd{env: env}, "accounts")
	c.Register(&depositCmd{env: env}, "accounts")
	c.Register(&withdrawCmd{env: env}, "accounts")
	c.Register(&closeCmd{env: env}, "accounts")
	c.Register(&listCmd{env: env}, "accounts")
	c.Register(&historyCmd{env: env}, "accounts")
}

// run 建立 App、執行 fn，結束時保存並關閉
func (e *Env) run(ctx context.Context, fn func(ledger Ledger) error) subcommands.ExitStatus {
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		PrintError(e.Out, err)
		return subcommands.ExitFailure
	}
	app, err := bootstrap.New(ctx, cfg, logger.NewWithWriter(e.Err, cfg.Log))
	if err != nil {
		PrintError(e.Out, err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	if err := fn(app.Core); err != nil {
		PrintError(e.Out, err)
		status = subcommands.ExitFailure
	}
	if err := app.Close(ctx); err != nil {
		PrintError(e.Out, err)
		status = subcommands.ExitFailure
	}
	return status
}

func usageError(f *flag.FlagSet, want int) bool {
	if f.NArg() != want {
		f.Usage()
		return true
	}
	return false
}

type shellCmd struct{ env *Env }

func (*shellCmd) Name() string             { return "shell" }
func (*shellCmd) Synopsis() string         { return "interactive banking menu" }
func (*shellCmd) Usage() string            { return "shell\n" }
func (*shellCmd) SetFlags(_ *flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 0) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		return NewShell(ledger, c.env.In, c.env.Out).Run(ctx)
	})
}

type openCmd struct{ env *Env }

func (*openCmd) Name() string             { return "open" }
func (*openCmd) Synopsis() string         { return "open a new account" }
func (*openCmd) Usage() string            { return "open <first-name> <last-name> <initial-balance>\n" }
func (*openCmd) SetFlags(_ *flag.FlagSet) {}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 3) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		balance, err := ParseAmount(f.Arg(2))
		if err != nil {
			return err
		}
		acc, err := ledger.OpenAccount(ctx, f.Arg(0), f.Arg(1), balance)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.env.Out, "Account Created Successfully!")
		PrintAccount(c.env.Out, acc)
		return nil
	})
}

type balanceCmd struct{ env *Env }

func (*balanceCmd) Name() string             { return "balance" }
func (*balanceCmd) Synopsis() string         { return "show an account" }
func (*balanceCmd) Usage() string            { return "balance <account-number>\n" }
func (*balanceCmd) SetFlags(_ *flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 1) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		number, err := ParseAccountNumber(f.Arg(0))
		if err != nil {
			return err
		}
		acc, err := ledger.BalanceEnquiry(ctx, number)
		if err != nil {
			return err
		}
		PrintAccount(c.env.Out, acc)
		return nil
	})
}

type depositCmd struct{ env *Env }

func (*depositCmd) Name() string             { return "deposit" }
func (*depositCmd) Synopsis() string         { return "deposit into an account" }
func (*depositCmd) Usage() string            { return "deposit <account-number> <amount>\n" }
func (*depositCmd) SetFlags(_ *flag.FlagSet) {}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 2) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		number, err := ParseAccountNumber(f.Arg(0))
		if err != nil {
			return err
		}
		amount, err := ParseAmount(f.Arg(1))
		if err != nil {
			return err
		}
		acc, err := ledger.Deposit(ctx, number, amount)
		if err != nil {
			return err
		}
		PrintAccount(c.env.Out, acc)
		return nil
	})
}

type withdrawCmd struct{ env *Env }

func (*withdrawCmd) Name() string             { return "withdraw" }
func (*withdrawCmd) Synopsis() string         { return "withdraw from an account" }
func (*withdrawCmd) Usage() string            { return "withdraw <account-number> <amount>\n" }
func (*withdrawCmd) SetFlags(_ *flag.FlagSet) {}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 2) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		number, err := ParseAccountNumber(f.Arg(0))
		if err != nil {
			return err
		}
		amount, err := ParseAmount(f.Arg(1))
		if err != nil {
			return err
		}
		acc, err := ledger.Withdraw(ctx, number, amount)
		if err != nil {
			return err
		}
		PrintAccount(c.env.Out, acc)
		return nil
	})
}

type closeCmd struct{ env *Env }

func (*closeCmd) Name() string             { return "close" }
func (*closeCmd) Synopsis() string         { return "close an account" }
func (*closeCmd) Usage() string            { return "close <account-number>\n" }
func (*closeCmd) SetFlags(_ *flag.FlagSet) {}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 1) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		number, err := ParseAccountNumber(f.Arg(0))
		if err != nil {
			return err
		}
		acc, err := ledger.CloseAccount(ctx, number)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.env.Out, "Account Deleted:")
		PrintAccount(c.env.Out, acc)
		return nil
	})
}

type listCmd struct{ env *Env }

func (*listCmd) Name() string             { return "list" }
func (*listCmd) Synopsis() string         { return "list all accounts" }
func (*listCmd) Usage() string            { return "list\n" }
func (*listCmd) SetFlags(_ *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 0) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		PrintAccounts(c.env.Out, ledger.ShowAllAccounts(ctx))
		return nil
	})
}

type historyCmd struct{ env *Env }

func (*historyCmd) Name() string             { return "history" }
func (*historyCmd) Synopsis() string         { return "show the operation journal of an account" }
func (*historyCmd) Usage() string            { return "history <account-number>\n" }
func (*historyCmd) SetFlags(_ *flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if usageError(f, 1) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(ledger Ledger) error {
		number, err := ParseAccountNumber(f.Arg(0))
		if err != nil {
			return err
		}
		ops, err := ledger.History(ctx, number)
		if err != nil {
			return err
		}
		printHistory(c.env.Out, ops)
		return nil
	})
}
