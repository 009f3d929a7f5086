package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/subcommands"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/cli"
	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	grpcpool "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
)

// remoteCmd 一次 RPC 的子命令
type remoteCmd struct {
	name     string
	synopsis string
	usage    string
	nargs    int
	client   func() (*grpc_adapter.Client, error)
	run      func(ctx context.Context, c *grpc_adapter.Client, args []string) error
}

func (r *remoteCmd) Name() string             { return r.name }
func (r *remoteCmd) Synopsis() string         { return r.synopsis }
func (r *remoteCmd) Usage() string            { return r.usage + "\n" }
func (r *remoteCmd) SetFlags(_ *flag.FlagSet) {}

func (r *remoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != r.nargs {
		f.Usage()
		return subcommands.ExitUsageError
	}
	c, err := r.client()
	if err == nil {
		err = r.run(ctx, c, f.Args())
	}
	if err != nil {
		cli.PrintError(os.Stdout, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// benchCmd 併發存款壓測
type benchCmd struct {
	client      func() (*grpc_adapter.Client, error)
	total       int
	concurrency int
	account     int64
	amount      string
}

func (*benchCmd) Name() string     { return "bench" }
func (*benchCmd) Synopsis() string { return "send concurrent deposits and report throughput" }
func (*benchCmd) Usage() string    { return "bench [-n total] [-c concurrency] [-account n] [-amount x]\n" }

func (b *benchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&b.total, "n", 10000, "total deposits")
	f.IntVar(&b.concurrency, "c", 100, "concurrent requests")
	f.Int64Var(&b.account, "account", 1, "target account number")
	f.StringVar(&b.amount, "amount", "1", "amount per deposit")
}

func (b *benchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if b.total < 1 || b.concurrency < 1 || f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	c, err := b.client()
	if err != nil {
		cli.PrintError(os.Stdout, err)
		return subcommands.ExitFailure
	}
	amount, err := cli.ParseAmount(b.amount)
	if err != nil {
		cli.PrintError(os.Stdout, err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	var failed atomic.Int64
	sem := make(chan struct{}, b.concurrency)
	startTime := time.Now()

	for i := 0; i < b.total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := c.Deposit(ctx, b.account, amount); err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (%d failed)\n", b.total, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(b.total)/elapsed.Seconds())
	if failed.Load() > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printAccount(acc domain.Account, err error) error {
	if err != nil {
		return err
	}
	cli.PrintAccount(os.Stdout, acc)
	return nil
}

func main() {
	addr := flag.String("addr", "localhost:50051", "ledger gRPC server address")
	verbose := flag.Bool("v", false, "log every RPC")

	var pool *grpcpool.Pool
	client := func() (*grpc_adapter.Client, error) {
		level := "warn"
		if *verbose {
			level = "debug"
		}
		pool = grpcpool.NewPool(grpcpool.WithInterceptor(
			grpcpool.LoggingInterceptor(logger.New(logger.Config{Level: level})),
		))
		conn, err := pool.GetConnection(*addr)
		if err != nil {
			return nil, err
		}
		return grpc_adapter.NewClient(conn), nil
	}

	commands := []*remoteCmd{
		{
			name: "open", synopsis: "open a new account", nargs: 3,
			usage: "open <first-name> <last-name> <initial-balance>",
			run: func(ctx context.Context, c *grpc_adapter.Client, args []string) error {
				balance, err := cli.ParseAmount(args[2])
				if err != nil {
					return err
				}
				return printAccount(c.OpenAccount(ctx, args[0], args[1], balance))
			},
		},
		{
			name: "balance", synopsis: "show an account", nargs: 1,
			usage: "balance <account-number>",
			run: func(ctx context.Context, c *grpc_adapter.Client, args []string) error {
				number, err := cli.ParseAccountNumber(args[0])
				if err != nil {
					return err
				}
				return printAccount(c.BalanceEnquiry(ctx, number))
			},
		},
		{
			name: "deposit", synopsis: "deposit into an account", nargs: 2,
			usage: "deposit <account-number> <amount>",
			run: func(ctx context.Context, c *grpc_adapter.Client, args []string) error {
				number, err := cli.ParseAccountNumber(args[0])
				if err != nil {
					return err
				}
				amount, err := cli.ParseAmount(args[1])
				if err != nil {
					return err
				}
				return printAccount(c.Deposit(ctx, number, amount))
			},
		},
		{
			name: "withdraw", synopsis: "withdraw from an account", nargs: 2,
			usage: "withdraw <account-number> <amount>",
			run: func(ctx context.Context, c *grpc_adapter.Client, args []string) error {
				number, err := cli.ParseAccountNumber(args[0])
				if err != nil {
					return err
				}
				amount, err := cli.ParseAmount(args[1])
				if err != nil {
					return err
				}
				return printAccount(c.Withdraw(ctx, number, amount))
			},
		},
		{
			name: "close", synopsis: "close an account", nargs: 1,
			usage: "close <account-number>",
			run: func(ctx context.Context, c *grpc_adapter.Client, args []string) error {
				number, err := cli.ParseAccountNumber(args[0])
				if err != nil {
					return err
				}
				acc, err := c.CloseAccount(ctx, number)
				if err != nil {
					return err
				}
				fmt.Println("Account Deleted:")
				return printAccount(acc, nil)
			},
		},
		{
			name: "list", synopsis: "list all accounts", nargs: 0,
			usage: "list",
			run: func(ctx context.Context, c *grpc_adapter.Client, _ []string) error {
				accounts, err := c.ListAccounts(ctx)
				if err != nil {
					return err
				}
				cli.PrintAccounts(os.Stdout, slices.Values(accounts))
				return nil
			},
		},
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		c.client = client
		commander.Register(c, "accounts")
	}
	commander.Register(&benchCmd{client: client}, "")

	flag.Parse()
	status := commander.Execute(context.Background())
	if pool != nil {
		pool.Close()
	}
	os.Exit(int(status))
}
