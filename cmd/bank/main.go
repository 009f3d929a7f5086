package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/cli"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	env := &cli.Env{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	cli.Register(commander, env)

	flag.Parse()
	// 沒有子命令時進入互動式選單
	if flag.NArg() == 0 {
		_ = flag.CommandLine.Parse(append(os.Args[1:], "shell"))
	}
	env.ConfigPath = *configPath

	os.Exit(int(commander.Execute(context.Background())))
}
