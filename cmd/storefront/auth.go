package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/guard"
	"github.com/allegrolike/storefront/internal/session"
)

func (a *app) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.session.Login(a.ctx(), username, password)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			fmt.Printf("logged in as %s (%s)\n", r.Content.Username, r.Content.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.session.Register(a.ctx(), username, email, password)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			fmt.Printf("registered and logged in as %s\n", r.Content.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the session and the persisted token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout()
			a.cart.Invalidate()
			a.orders.Invalidate()
			fmt.Println("logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Restore(a.ctx())
			state, user := a.session.State()
			if state != session.Authenticated {
				fmt.Println("not logged in")
				return nil
			}
			fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
			if user.Address != nil {
				addr := user.Address
				fmt.Printf("ships to: %s %d, %s, %s\n", addr.Street, addr.HouseNumber, addr.City, addr.Country)
			}
			return nil
		},
	}
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the account profile",
	}

	var username, email string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update username and email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/profile"); err != nil {
				return err
			}
			_, user := a.session.State()
			r := a.client.UpdateUser(a.ctx(), user.ID, api.UpdateUserRequest{Username: username, Email: email})
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			updated := r.Content
			a.session.SetUser(&updated)
			fmt.Printf("profile updated: %s <%s>\n", updated.Username, updated.Email)
			return nil
		},
	}
	update.Flags().StringVar(&username, "username", "", "new username")
	update.Flags().StringVar(&email, "email", "", "new email")
	_ = update.MarkFlagRequired("username")
	_ = update.MarkFlagRequired("email")

	cmd.AddCommand(update)
	return cmd
}
