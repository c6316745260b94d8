package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jobgrid/jobgrid/internal/auth"
	"github.com/jobgrid/jobgrid/internal/idgen"
	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store/postgres"
)

var userCmd = &cobra.Command{
	Use:   "user <command>",
	Short: "Manage user accounts",
}

var userCreateFlags struct {
	email     string
	role      string
	firstName string
	lastName  string
	company   string
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account directly in the database",
	Long: `Create a user account directly in the database, bypassing email
verification. This is the only way to create admin accounts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		databaseURL := os.Getenv("JOBGRID_DATABASE_URL")
		if databaseURL == "" {
			return fmt.Errorf("JOBGRID_DATABASE_URL is required")
		}

		role := model.Role(userCreateFlags.role)
		if !role.IsValid() {
			return fmt.Errorf("unknown role %q (seeker, employer, or admin)", userCreateFlags.role)
		}
		if userCreateFlags.email == "" {
			return fmt.Errorf("--email is required")
		}

		password, err := readPassword()
		if err != nil {
			return err
		}
		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		id, err := idgen.Generate()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := &model.User{
			ID:            id,
			Email:         userCreateFlags.email,
			PasswordHash:  hash,
			FirstName:     userCreateFlags.firstName,
			LastName:      userCreateFlags.lastName,
			Role:          role,
			EmailVerified: true,
			CompanyName:   userCreateFlags.company,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := model.ValidateUser(user); err != nil {
			return err
		}

		store, err := postgres.New(databaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.CreateUser(context.Background(), user); err != nil {
			return err
		}

		fmt.Printf("created %s user %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

// readPassword prompts on a TTY without echo, or reads a line from stdin when
// piped.
func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	userCreateCmd.Flags().StringVar(&userCreateFlags.email, "email", "", "account email address")
	userCreateCmd.Flags().StringVar(&userCreateFlags.role, "role", "admin", "account role: seeker, employer, or admin")
	userCreateCmd.Flags().StringVar(&userCreateFlags.firstName, "first-name", "", "first name")
	userCreateCmd.Flags().StringVar(&userCreateFlags.lastName, "last-name", "", "last name")
	userCreateCmd.Flags().StringVar(&userCreateFlags.company, "company", "", "company name (employer accounts)")
	userCmd.AddCommand(userCreateCmd)
}
