package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segurosnorte/adminctl/internal/session"
)

// LoginCmd signs in against the admin API and persists the session.
type LoginCmd struct {
	Email      string `arg:"" help:"Account email"`
	Password   string `help:"Account password (prompted when omitted)" env:"ADMINCTL_PASSWORD"`
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, l.Server, l.SessionDir)
	if err != nil {
		return err
	}

	password := l.Password
	if password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	// The session exposes only the boolean outcome; the cause is in
	// the log when --debug is on.
	if !app.state.Login(ctx, l.Email, password) {
		return fmt.Errorf("login failed: check your credentials and server URL")
	}

	user := app.state.CurrentUser()
	fmt.Printf("Signed in as %s (%s)\n", user.DisplayName, user.Role)

	if user.FirstLogin {
		fmt.Println("This is your first login; you should change your password.")
	}

	return nil
}

// LogoutCmd ends the session and clears the stored token.
type LogoutCmd struct {
	SessionDir string `help:"Custom session directory"`
}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, "", l.SessionDir)
	if err != nil {
		return err
	}

	app.state.Logout()
	return nil
}

// RefreshCmd exchanges the stored token for a fresh one. A failed
// exchange ends the session.
type RefreshCmd struct {
	Server     string `help:"Server URL override" env:"ADMINCTL_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (r *RefreshCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, r.Server, r.SessionDir)
	if err != nil {
		return err
	}

	if !app.state.Refresh(ctx) {
		return fmt.Errorf("token refresh failed")
	}

	fmt.Println("Token refreshed.")
	return nil
}

// WhoamiCmd shows the current session and token state.
type WhoamiCmd struct {
	SessionDir string `help:"Custom session directory"`
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, "", w.SessionDir)
	if err != nil {
		return err
	}

	user := app.state.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	fmt.Printf("User:        %s\n", user.DisplayName)
	fmt.Printf("Email:       %s\n", user.Email)
	fmt.Printf("Role:        %s\n", user.Role)
	fmt.Printf("Active:      %s\n", yesNo(user.Active))
	fmt.Printf("First login: %s\n", yesNo(user.FirstLogin))

	if app.state.IsTokenExpiringSoon(session.DefaultExpiryWarning) {
		fmt.Println()
		fmt.Println("Warning: token expires soon, run 'adminctl refresh'.")
	}

	return nil
}

// TokenCmd shows the stored token's claims and expiry.
type TokenCmd struct {
	SessionDir string `help:"Custom session directory"`
	Raw        bool   `help:"Print the raw token"`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals, "", t.SessionDir)
	if err != nil {
		return err
	}

	token := app.state.Token()
	if token == "" {
		fmt.Println("No token stored.")
		return nil
	}

	if t.Raw {
		fmt.Println(token)
		return nil
	}

	fmt.Printf("Authenticated: %s\n", yesNo(app.state.IsAuthenticated()))

	claims, err := session.DecodeClaims(token)
	if err != nil {
		fmt.Println("Token payload is not decodable; it is treated as expired.")
		return nil
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Printf("Expires:       %s\n", exp.Time.Format(time.RFC3339))
		if remaining := time.Until(exp.Time); remaining > 0 {
			fmt.Printf("Remaining:     %s\n", remaining.Round(time.Second))
		}
	}

	return nil
}
