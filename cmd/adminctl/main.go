package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/segurosnorte/adminctl/cmd/adminctl/internal/commands"
	"github.com/segurosnorte/adminctl/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Sign in to the admin API"`
		Logout    commands.LogoutCmd    `cmd:"" help:"End the current session"`
		Refresh   commands.RefreshCmd   `cmd:"" help:"Refresh the session token"`
		Whoami    commands.WhoamiCmd    `cmd:"" help:"Show the current session"`
		Token     commands.TokenCmd     `cmd:"" help:"Show the stored token"`
		Users     commands.UsersCmd     `cmd:"" help:"Manage user accounts"`
		Companies commands.CompaniesCmd `cmd:"" help:"Manage the company catalog"`
		Profiles  commands.ProfilesCmd  `cmd:"" help:"Read the profile catalog"`
		Status    commands.StatusCmd    `cmd:"" help:"Check the admin API is reachable"`
		Config    string                `help:"Config file path" env:"ADMINCTL_CONFIG"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version, Config: cli.Config})
	cmd.FatalIfErrorf(err)
}
