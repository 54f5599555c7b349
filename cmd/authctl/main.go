// authctl is a small CLI over the session core: it logs in and out of a
// platform account and reports session status, persisting tokens the same
// way the embedded SDK does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/craftsite/go-auth-client/api"
	"github.com/craftsite/go-auth-client/internal/config"
	"github.com/craftsite/go-auth-client/redirect"
	"github.com/craftsite/go-auth-client/session"
	"github.com/craftsite/go-auth-client/store"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "authctl: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := config.Load()

	audience := store.AudienceCustomer
	if os.Getenv("AUTHCTL_ADMIN") != "" {
		audience = store.AudienceAdmin
	}

	manager, err := session.NewManager(session.Deps{
		API:      api.NewClient(cfg.APIBaseURL, api.WithLogger(log)),
		Store:    store.NewFile(cfg.StorageDir, audience),
		Resolver: redirect.NewResolver(cfg.RootDomains...),
		Flag:     redirect.NewMemoryFlag(),
	}, session.WithLogger(log))
	if err != nil {
		return err
	}
	defer manager.Close()

	ctx := context.Background()
	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "login":
		return login(ctx, manager, args[1:])
	case "signup":
		return signup(ctx, manager, args[1:])
	case "status":
		return status(manager)
	case "logout":
		return logout(manager)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func login(ctx context.Context, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	result, err := manager.Login(ctx, session.Credentials{
		Email:    *email,
		Password: *password,
	}, session.Request{})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", result.User.Email)
	fmt.Printf("Next stop: %s\n", result.RedirectTo)
	return nil
}

func signup(ctx context.Context, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	subDomain := fs.String("sub-domain", "", "requested tenant sub-domain")
	_ = fs.Parse(args)

	result, err := manager.Signup(ctx, session.SignupDetails{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
		SubDomain: *subDomain,
	}, session.Request{})
	if err != nil {
		return err
	}

	fmt.Printf("Account %s created. Log in at %s\n", result.Email, result.LoginTo)
	return nil
}

func status(manager *session.Manager) error {
	user := manager.Current()
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("Logged in as %s", user.Email)
	if user.SubDomain != "" {
		fmt.Printf(" (tenant %s)", user.SubDomain)
	}
	fmt.Println()
	return nil
}

func logout(manager *session.Manager) error {
	target, err := manager.Logout()
	if err != nil {
		return err
	}
	fmt.Printf("Logged out. Next stop: %s\n", target)
	return nil
}

func usage() {
	figure.NewFigure("authctl", "cybermedium", true).Print()
	fmt.Println()
	fmt.Println("usage: authctl <login|signup|status|logout> [flags]")
}
