package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/codejam-dev/auth-client/apiclient"
	"github.com/codejam-dev/auth-client/callback"
	"github.com/codejam-dev/auth-client/credentials"
	"github.com/codejam-dev/auth-client/guard"
	"github.com/codejam-dev/auth-client/internal/config"
	"github.com/codejam-dev/auth-client/pkce"
	"github.com/codejam-dev/auth-client/session"
)

const googleFlowTimeout = 5 * time.Minute

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.NewFromFile(configFilePath())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		displayAppname(cfg.GetAppName())
		usage()
		return nil
	}

	manager, store, err := buildManager(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	switch args[0] {
	case "register":
		if len(args) != 4 {
			return usageError("register <name> <email> <password>")
		}
		if err := manager.Register(ctx, args[1], args[2], args[3]); err != nil {
			return err
		}
		fmt.Println("Registered. Run 'otp send' then 'otp verify <code>' to activate the account.")
		return nil

	case "otp":
		return runOtp(ctx, manager, args[1:])

	case "login":
		if len(args) != 3 {
			return usageError("login <email> <password>")
		}
		if err := manager.Login(ctx, args[1], args[2]); err != nil {
			return err
		}
		if manager.Session().IsAuthenticated {
			fmt.Println("Logged in.")
		} else {
			fmt.Println("Account not verified yet. Run 'otp send' then 'otp verify <code>'.")
		}
		return nil

	case "google":
		return runGoogleLogin(ctx, cfg, manager, logger)

	case "logout":
		manager.Logout(ctx)
		fmt.Println("Logged out.")
		return nil

	case "whoami":
		return runWhoami(manager, store)

	case "reset-request":
		if len(args) != 2 {
			return usageError("reset-request <email>")
		}
		if err := manager.RequestPasswordReset(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Reset token sent. Complete with 'reset-complete <email> <token> <new-password>'.")
		return nil

	case "reset-complete":
		if len(args) != 4 {
			return usageError("reset-complete <email> <token> <new-password>")
		}
		if err := manager.CompletePasswordReset(ctx, args[1], args[2], args[3]); err != nil {
			return err
		}
		fmt.Println("Password updated. Log in with the new password.")
		return nil

	case "health":
		if manager.CheckHealth(ctx) {
			fmt.Println("auth service: ok")
			return nil
		}
		fmt.Println("auth service: unreachable")
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runOtp(ctx context.Context, manager *session.Manager, args []string) error {
	if len(args) == 0 {
		return usageError("otp send | otp verify <code>")
	}
	switch args[0] {
	case "send":
		if err := manager.GenerateOTP(ctx); err != nil {
			return err
		}
		fmt.Println("OTP sent, check your email.")
		return nil
	case "verify":
		if len(args) != 2 {
			return usageError("otp verify <code>")
		}
		if err := manager.ValidateOTP(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Verified and logged in.")
		return nil
	}
	return usageError("otp send | otp verify <code>")
}

func runGoogleLogin(ctx context.Context, cfg config.Config, manager *session.Manager, logger zerolog.Logger) error {
	listener, err := callback.New(cfg.GetCallbackURL(), callback.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := listener.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = listener.Shutdown(shutdownCtx)
	}()

	authURL, err := manager.InitiateGoogleLogin()
	if err != nil {
		return err
	}
	fmt.Printf("Open this URL in your browser to continue:\n\n  %s\n\n", authURL)

	waitCtx, cancel := context.WithTimeout(ctx, googleFlowTimeout)
	defer cancel()
	code, err := listener.Wait(waitCtx)
	if err != nil {
		return err
	}

	if err := manager.ExchangeOAuthCode(ctx, code); err != nil {
		return err
	}
	fmt.Println("Logged in with Google.")
	return nil
}

func runWhoami(manager *session.Manager, store credentials.Store) error {
	s := manager.Session()
	decision := guard.New(store).Evaluate(s)

	if !s.IsAuthenticated {
		if decision == guard.RedirectVerifyOTP {
			email, _ := manager.PendingEmail()
			fmt.Printf("Not logged in; %s is awaiting OTP verification.\n", email)
			return nil
		}
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s <%s> (user %s)\n", s.User.Name, s.User.Email, s.User.UserID)
	return nil
}

func buildManager(cfg config.Config, logger zerolog.Logger) (*session.Manager, credentials.Store, error) {
	store := buildStore(cfg, logger)

	api, err := apiclient.New(
		cfg.GetAuthBaseURL(),
		apiclient.StoreTokenSource{Store: store},
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	manager, err := session.NewManager(
		session.Deps{
			Store:     store,
			Verifiers: pkce.NewVerifierStore(pkce.DefaultVerifierTTL),
			API:       api,
		},
		cfg.GetGoogleAuthURL(),
		session.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return manager, store, nil
}

func buildStore(cfg config.Config, logger zerolog.Logger) credentials.Store {
	dir := cfg.GetCredentialsDir()
	if dir == "" {
		logger.Warn().Msg("no writable credentials location, session will not persist")
		return credentials.NewNoop()
	}

	options := []credentials.FileStoreOption{credentials.WithLogger(logger)}
	if hexKey := cfg.GetSealKey(); hexKey != "" {
		key, err := credentials.ParseSealKey(hexKey)
		if err != nil {
			logger.Warn().Err(err).Msg("invalid seal key, session will not persist")
			return credentials.NewNoop()
		}
		options = append(options, credentials.WithSealKey(key))
	}

	store, err := credentials.NewFileStore(dir, options...)
	if err != nil {
		logger.Warn().Err(err).Msg("credential store unavailable, session will not persist")
		return credentials.NewNoop()
	}
	return store
}

func configFilePath() string {
	if path := os.Getenv("CODEJAM_CONFIG"); path != "" {
		return path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "codejam.toml"
	}
	return filepath.Join(configDir, "codejam", "config.toml")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`Usage:
  codejam-auth register <name> <email> <password>
  codejam-auth otp send
  codejam-auth otp verify <code>
  codejam-auth login <email> <password>
  codejam-auth google
  codejam-auth logout
  codejam-auth whoami
  codejam-auth reset-request <email>
  codejam-auth reset-complete <email> <token> <new-password>
  codejam-auth health`)
}

func usageError(hint string) error {
	return fmt.Errorf("usage: codejam-auth %s", hint)
}
