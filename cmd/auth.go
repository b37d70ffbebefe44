package main

import (
	"context"
	"fmt"

	"github.com/duskfall/gamedex/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("signing in", "email", email)

	identity, err := r.provider.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	r.logger.Info("signed in", "email", identity.Email())
	return r.writePlain("✓ Signed in as %s\n", identity.Email())
}

// AuthRegister creates a new account and signs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("registering account", "email", email)

	identity, err := r.provider.SignUp(ctx, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.logger.Info("account created", "email", identity.Email())
	return r.writePlain("✓ Account created, signed in as %s\n", identity.Email())
}

// AuthLogout signs out and removes the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out failed: %w", err)
	}

	r.logger.Info("signed out")
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami prints the current signed-in identity from the session store.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	snap := r.session.Read()

	if !snap.Resolved {
		return r.writePlain("Session not resolved yet\n")
	}
	if !snap.SignedIn() {
		return r.writePlain("Not signed in\n")
	}

	return r.writePlain("Signed in as %s\n", snap.Identity.Email())
}

// AuthStatus checks tracker availability by calling the /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking tracker status")

	resp, err := r.api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: service unavailable: %v", shared.ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	r.writePlain("✓ Service is healthy\n")

	snap := r.session.Read()
	if snap.SignedIn() {
		r.writePlain("Session: ✓ Signed in as %s\n", snap.Identity.Email())
	} else {
		r.writePlain("Session: ✗ Not signed in\n")
	}
	return nil
}
