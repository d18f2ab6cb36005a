package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/lmoretti/bizmanager/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Environment defaults (BIZMANAGER_DIR) may come from a .env file.
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Shell completion: returns immediately unless invoked by the shell.
	completion(commander).Complete("bmp")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion builds the shell completion tree from the registered commands.
func completion(commander *subcommands.Commander) *complete.Command {
	sub := make(map[string]*complete.Command)
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub[c.Name()] = &complete.Command{Flags: map[string]complete.Predictor{}}
	})
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"store-dir": predict.Dirs("*"),
		},
	}
}
