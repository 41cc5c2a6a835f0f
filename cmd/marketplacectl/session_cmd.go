package main

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

func newLoginCommand(c *cli) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		emailFlag: &cobraflags.StringFlag{
			Name:  emailFlag,
			Usage: "Email del usuario",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Usage: "Contraseña",
		},
	}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y la guarda localmente (7 días)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := flags[emailFlag].GetString()
			password := flags[passwordFlag].GetString()
			if email == "" || password == "" {
				return errors.New("--email y --password son obligatorios")
			}
			mgr, err := c.manager()
			if err != nil {
				return err
			}
			id, err := mgr.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s (%s)\n", id.Email, id.Role)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newLogoutCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión local",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := c.manager()
			if err != nil {
				return err
			}
			if err := mgr.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra la identidad de la sesión local",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := c.manager()
			if err != nil {
				return err
			}
			id, err := mgr.Current()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if id == nil {
				fmt.Fprintln(out, "Sin sesión")
				return nil
			}
			fmt.Fprintln(out, renderKeyValues("Sesión", [][2]string{
				{"Usuario", id.DisplayName},
				{"Email", id.Email},
				{"Rol", id.Role},
				{"Empresa", id.BusinessID},
			}))
			return nil
		},
	}
}
