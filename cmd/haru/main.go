package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/haruapp/haru/internal/app"
	"github.com/haruapp/haru/internal/auth"
	"github.com/haruapp/haru/internal/config"
	"github.com/haruapp/haru/internal/credential"
	"github.com/haruapp/haru/internal/gateway"
	"github.com/haruapp/haru/internal/logger"
	"github.com/haruapp/haru/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "haru:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	gw := gateway.New(cfg.Firebase, log)

	userID := "local"
	backend := "mock"
	if cfg.Firebase.Configured() {
		backend = "firestore"

		session, err := signIn(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		userID = session.UserID

		if remote, ok := gw.(*gateway.Remote); ok {
			remote.SetTokenProvider(tokenProvider(cfg.Firebase.APIKey, session, log))
		}
	}

	m := app.New(
		repository.NewTodoRepo(gw),
		repository.NewVisitRepo(gw),
		log,
		userID,
		backend,
	)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// signIn establishes a session against the identity service. A refresh
// token saved in the keyring is tried first; otherwise the user is
// prompted for credentials, with anonymous sign-in as the fallback.
// The refresh token is saved back so the next run skips the prompt.
func signIn(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*auth.Session, error) {
	client := auth.NewClient(cfg.Firebase.APIKey)

	if token, err := credential.Get(credential.RefreshTokenKey); err == nil && token != "" {
		session, err := client.Refresh(ctx, token)
		if err == nil {
			return session, nil
		}
		log.Warn("stored refresh token rejected", zap.Error(err))
	}

	session, err := promptSignIn(ctx, client)
	if err != nil {
		return nil, err
	}

	if err := credential.Set(credential.RefreshTokenKey, session.RefreshToken); err != nil {
		log.Warn("saving refresh token failed", zap.Error(err))
	}
	return session, nil
}

// promptSignIn collects credentials on the plain terminal, before the
// alternate screen starts.
func promptSignIn(ctx context.Context, client *auth.Client) (*auth.Session, error) {
	var email, password string
	var anonymous bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Sign in anonymously?").
				Description("Anonymous data lives under a throwaway account.").
				Value(&anonymous),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		).WithHideFunc(func() bool { return anonymous }),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("collecting credentials: %w", err)
	}

	if anonymous {
		return client.SignInAnonymously(ctx)
	}

	session, err := client.SignInWithPassword(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return nil, fmt.Errorf("sign-in rejected: %w", err)
	}
	return session, err
}

// tokenProvider returns a callback that hands out the current id token,
// refreshing it behind a lock when it is close to expiry.
func tokenProvider(apiKey string, session *auth.Session, log *zap.Logger) func() string {
	client := auth.NewClient(apiKey)
	var mu sync.Mutex

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if !session.Expired() {
			return session.IDToken
		}

		fresh, err := client.Refresh(context.Background(), session.RefreshToken)
		if err != nil {
			log.Warn("refreshing id token failed", zap.Error(err))
			return session.IDToken
		}
		*session = *fresh

		if err := credential.Set(credential.RefreshTokenKey, session.RefreshToken); err != nil {
			log.Warn("saving refresh token failed", zap.Error(err))
		}
		return session.IDToken
	}
}
