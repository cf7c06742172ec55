package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/segurosnorte/adminctl/internal/api"
	"github.com/segurosnorte/adminctl/internal/session"
)

// UsersCmd manages user accounts. The whole area requires the
// administrator role.
type UsersCmd struct {
	List    UsersListCmd    `cmd:"" help:"List user accounts"`
	Get     UsersGetCmd     `cmd:"" help:"Show a user account"`
	Create  UsersCreateCmd  `cmd:"" help:"Create a user account"`
	Update  UsersUpdateCmd  `cmd:"" help:"Update a user account"`
	Delete  UsersDeleteCmd  `cmd:"" help:"Delete a user account"`
	Enable  UsersEnableCmd  `cmd:"" help:"Activate a user account"`
	Disable UsersDisableCmd `cmd:"" help:"Deactivate a user account"`
}

type UsersListCmd struct {
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, u.Server, u.SessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(session.RoleAdministrator); err != nil {
		return err
	}

	users, err := app.client.Users().List(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, user := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			user.UserID, user.Name, user.Email,
			session.RoleForProfile(user.ProfileID), yesNo(user.Active))
	}
	w.Flush()

	return nil
}

type UsersGetCmd struct {
	ID         string `arg:"" help:"User id"`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersGetCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, u.Server, u.SessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(session.RoleAdministrator); err != nil {
		return err
	}

	user, err := app.client.Users().Get(ctx, u.ID)
	if err != nil {
		return err
	}

	printUser(user)
	return nil
}

type UsersCreateCmd struct {
	Email      string `arg:"" help:"Account email"`
	Name       string `help:"Display name" required:""`
	Password   string `help:"Initial password" required:""`
	ProfileID  int    `help:"Profile id (1=Administrador 2=Supervisor 3=Usuario 4=Cliente)" default:"3"`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, u.Server, u.SessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(session.RoleAdministrator); err != nil {
		return err
	}

	user, err := app.client.Users().Create(ctx, api.CreateUserRequest{
		Email:     u.Email,
		Name:      u.Name,
		Password:  u.Password,
		ProfileID: u.ProfileID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User created with id %s\n", user.UserID)
	return nil
}

type UsersUpdateCmd struct {
	ID         string `arg:"" help:"User id"`
	Email      string `help:"Account email" required:""`
	Name       string `help:"Display name" required:""`
	ProfileID  int    `help:"Profile id" default:"3"`
	Active     bool   `help:"Account enabled" default:"true" negatable:""`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, u.Server, u.SessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(session.RoleAdministrator); err != nil {
		return err
	}

	user, err := app.client.Users().Update(ctx, u.ID, api.UpdateUserRequest{
		Email:     u.Email,
		Name:      u.Name,
		ProfileID: u.ProfileID,
		Active:    u.Active,
	})
	if err != nil {
		return err
	}

	printUser(user)
	return nil
}

type UsersDeleteCmd struct {
	ID         string `arg:"" help:"User id"`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, u.Server, u.SessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(session.RoleAdministrator); err != nil {
		return err
	}

	if err := app.client.Users().Delete(ctx, u.ID); err != nil {
		return err
	}

	fmt.Println("User deleted.")
	return nil
}

type UsersEnableCmd struct {
	ID         string `arg:"" help:"User id"`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersEnableCmd) Run(ctx context.Context, globals *Globals) error {
	return setUserActive(ctx, globals, u.Server, u.SessionDir, u.ID, true)
}

type UsersDisableCmd struct {
	ID         string `arg:"" help:"User id"`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (u *UsersDisableCmd) Run(ctx context.Context, globals *Globals) error {
	return setUserActive(ctx, globals, u.Server, u.SessionDir, u.ID, false)
}

func setUserActive(ctx context.Context, globals *Globals, server, sessionDir, id string, active bool) error {
	app, err := buildApp(globals, server, sessionDir)
	if err != nil {
		return err
	}
	if err := app.requireRoles(session.RoleAdministrator); err != nil {
		return err
	}

	if err := app.client.Users().SetActive(ctx, id, active); err != nil {
		return err
	}

	if active {
		fmt.Println("User activated.")
	} else {
		fmt.Println("User deactivated.")
	}
	return nil
}

func printUser(user *api.User) {
	fmt.Printf("ID:          %s\n", user.UserID)
	fmt.Printf("Name:        %s\n", user.Name)
	fmt.Printf("Email:       %s\n", user.Email)
	fmt.Printf("Role:        %s\n", session.RoleForProfile(user.ProfileID))
	fmt.Printf("Active:      %s\n", yesNo(user.Active))
	fmt.Printf("First login: %s\n", yesNo(user.FirstLogin))
}
