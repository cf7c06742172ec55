package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/segurosnorte/adminctl/internal/session"
)

// ProfilesCmd reads the profile catalog. Any authenticated user may
// look at it.
type ProfilesCmd struct {
	List ProfilesListCmd `cmd:"" help:"List profiles"`
}

type ProfilesListCmd struct {
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (p *ProfilesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, p.Server, p.SessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(); err != nil {
		return err
	}

	profiles, err := app.client.Profiles().List(ctx)
	if err != nil {
		return err
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tDESCRIPTION")
	for _, profile := range profiles {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			profile.ProfileID, profile.Name,
			session.RoleForProfile(profile.ProfileID), profile.Description)
	}
	w.Flush()

	return nil
}
