package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"github.com/mosaicms/go-admin-client/internal/config"
	"github.com/mosaicms/go-admin-client/session"
	"github.com/mosaicms/go-admin-client/token"
	"github.com/mosaicms/go-admin-client/token/filerepo"
	"github.com/mosaicms/go-admin-client/token/memrepo"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
	log.Printf("Session closed\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	controller, err := session.New(c, tokenRepo(c))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := login(ctx, controller); err != nil {
		return err
	}
	defer controller.Logout(context.Background())

	printProfile(controller.State())
	watchSession(ctx, controller)

	// The scheduler keeps the session fresh until interrupted.
	<-ctx.Done()
	return nil
}

// tokenRepo picks encrypted file storage when a secret is configured,
// falling back to in-memory tokens that die with the process.
func tokenRepo(c config.Config) token.Repo {
	secret := c.GetTokenFileSecret()
	if secret == "" {
		log.Printf("TOKEN_FILE_SECRET not set; tokens will not be persisted\n")
		return memrepo.New()
	}
	return filerepo.New(c.GetTokenFile(), []byte(secret))
}

func login(ctx context.Context, controller *session.Controller) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if err := controller.Login(ctx, email, string(password)); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

func printProfile(state session.State) {
	if state.User == nil {
		return
	}
	log.Printf("Logged in as %s (%s)\n", state.User.Email, state.User.ID)
	for _, role := range state.User.Roles {
		log.Printf("  role: %s\n", role.Name)
	}
	if len(state.User.Permissions) > 0 {
		log.Printf("  permissions: %s\n", strings.Join(state.User.Permissions, ", "))
	}
}

// watchSession logs the session broadcasts until the context ends.
func watchSession(ctx context.Context, controller *session.Controller) {
	refreshed := controller.Events().SubscribeRefreshed()
	loggedOut := controller.Events().SubscribeLoggedOut()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case record := <-refreshed:
				log.Printf("Tokens refreshed, valid until %s\n", record.ExpiresAt.Format("15:04:05"))
			case <-loggedOut:
				log.Printf("Session ended\n")
			}
		}
	}()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
