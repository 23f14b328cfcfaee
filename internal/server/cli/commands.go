// Package cli is the terminal front end of the account store: it prompts for
// form input and renders the results of the reset, register, login and users
// operations.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/server/auth"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/services"
)

// ErrUnknownCommand is returned by Run for a command it does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Accounts is the account surface the CLI drives. *services.UserService
// satisfies it.
type Accounts interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, form services.RegistrationForm) (*models.User, []services.ValidationError, error)
	IssueSession(user *models.User) (string, error)
	ParseSession(token string) (*auth.Claims, error)
	ListUsers(ctx context.Context, currentEmail string) ([]*models.User, error)
}

// Resetter restores the seed state. *services.ResetService satisfies it.
type Resetter interface {
	Reset(ctx context.Context) error
}

type Commands struct {
	accounts Accounts
	resetter Resetter
	in       *bufio.Reader
	out      io.Writer
	// ttyFd is the terminal passwords are read from without echo, or -1
	// when in is not a terminal.
	ttyFd int
}

func NewCommands(accounts Accounts, resetter Resetter, in io.Reader, out io.Writer) *Commands {
	c := &Commands{accounts: accounts, resetter: resetter, in: bufio.NewReader(in), out: out, ttyFd: -1}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		c.ttyFd = int(f.Fd())
	}
	return c
}

// Usage is printed for a missing or unknown command.
const Usage = "usage: socialnet [flags] reset|register|login|users"

// Run executes the named command.
func (c *Commands) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case "reset":
		return c.Reset(ctx)
	case "register":
		return c.Register(ctx)
	case "login":
		return c.Login(ctx)
	case "users":
		return c.Users(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func (c *Commands) Reset(ctx context.Context) error {
	if err := c.resetter.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Database has been reset")
	return nil
}

func (c *Commands) Register(ctx context.Context) error {
	var form services.RegistrationForm
	var err error

	if form.Name, err = GetSimpleText(c.in, "Name", c.out); err != nil {
		return err
	}
	if form.Surname, err = GetSimpleText(c.in, "Surname", c.out); err != nil {
		return err
	}
	if form.Email, err = GetSimpleText(c.in, "Email", c.out); err != nil {
		return err
	}
	if form.Password, err = c.password("Password", c.out); err != nil {
		return err
	}
	if form.PasswordRepeated, err = c.password("Repeat password", c.out); err != nil {
		return err
	}

	user, verrs, err := c.accounts.Register(ctx, form)
	if err != nil {
		return err
	}
	if len(verrs) > 0 {
		for _, e := range verrs {
			fmt.Fprintf(c.out, "[%s] %s\n", e.Severity, e.Message)
		}
		return nil
	}

	fmt.Fprintf(c.out, "User %s registered with id %s\n", user.Email, user.ID)
	return c.printSession(user)
}

// Login prints the session token of the authenticated user. Bad credentials
// are reported to the user, not returned.
func (c *Commands) Login(ctx context.Context) error {
	email, err := GetSimpleText(c.in, "Email", c.out)
	if err != nil {
		return err
	}
	password, err := c.password("Password", c.out)
	if err != nil {
		return err
	}

	user, err := c.accounts.Login(ctx, email, password)
	if errors.Is(err, common.ErrAuthFailure) {
		fmt.Fprintln(c.out, "Incorrect email or password")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Welcome, %s %s\n", user.Name, user.Surname)
	return c.printSession(user)
}

// Users lists the accounts visible to the holder of a session token.
func (c *Commands) Users(ctx context.Context) error {
	token, err := GetSimpleText(c.in, "Session token", c.out)
	if err != nil {
		return err
	}

	claims, err := c.accounts.ParseSession(token)
	if err != nil {
		fmt.Fprintln(c.out, "Session is not valid, log in again")
		return nil
	}

	list, err := c.accounts.ListUsers(ctx, claims.Email)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No users")
		return nil
	}
	for _, u := range list {
		fmt.Fprintf(c.out, "%s\t%s %s\t%s\n", u.ID, u.Name, u.Surname, u.Email)
	}
	return nil
}

func (c *Commands) password(prompt string, w io.Writer) (string, error) {
	if c.ttyFd < 0 {
		return GetSimpleText(c.in, prompt, w)
	}
	return GetPassword(c.ttyFd, prompt, w)
}

func (c *Commands) printSession(user *models.User) error {
	token, err := c.accounts.IssueSession(user)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Session token: %s\n", token)
	return nil
}
