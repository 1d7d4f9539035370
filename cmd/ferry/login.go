package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/five82/ferry/internal/config"
	"github.com/five82/ferry/internal/offcloud"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and save the account's API key to the config file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "account email (prompted when omitted)"},
		},
		Action: runLogin,
	}
}

func runLogin(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if base := c.String("base-url"); base != "" {
		cfg.BaseURL = base
	}

	client, err := offcloud.New(cfg.BaseURL, "")
	if err != nil {
		return err
	}

	email, password, err := promptCredentials(c)
	if err != nil {
		return err
	}

	if err := client.Login(c.Context, email, password); err != nil {
		return err
	}
	key, err := client.APIKey(c.Context)
	if err != nil {
		return err
	}

	cfg.APIKey = key
	if err := config.Save(c.String("config"), cfg); err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, "login successful; api key saved")
	return nil
}

func promptCredentials(c *cli.Context) (email, password string, err error) {
	email = strings.TrimSpace(c.String("email"))
	if email == "" {
		fmt.Fprint(c.App.Writer, "email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email required")
	}

	fmt.Fprint(c.App.Writer, "password: ")
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.App.Writer)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimSpace(string(raw))
	if password == "" {
		return "", "", fmt.Errorf("password required")
	}

	return email, password, nil
}
