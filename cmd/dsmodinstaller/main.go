package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"

	"github.com/6686-repos/dsmodinstaller/cmd/dsmodinstaller/commands"
	"github.com/6686-repos/dsmodinstaller/internal/config"
	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
	"github.com/6686-repos/dsmodinstaller/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("dsmodinstaller"),
		kong.Description("Keeps the DS mod repository synced, installed and running from the system tray."),
		kong.UsageOnError(),
		kong.Bind(global),
		kong.Vars{
			"version":     version.Version,
			"config_path": config.DefaultPath(),
		},
	)

	err := parser.Run(global, cli)
	if err == nil {
		global.Close()
		return
	}
	var exit *commands.ExitError
	if errors.As(err, &exit) {
		global.Close()
		os.Exit(exit.Code)
	}
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
