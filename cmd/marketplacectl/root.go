package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mutesi02/product-marketplace/internal/session"
	"github.com/Mutesi02/product-marketplace/pkg/client"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

const defaultAPIURL = "http://localhost:8080"

// errNoSession no hay sesión local vigente.
var errNoSession = errors.New("no hay sesión activa: ejecute 'marketplacectl login'")

// cli opciones globales compartidas por los subcomandos.
type cli struct {
	apiURL      string
	sessionPath string
	timeout     time.Duration
	verbose     bool
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "marketplacectl",
		Short:         "Cliente de línea de comandos del Product Marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv("MARKETPLACE_API")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api", apiURL, "URL base de la API (env MARKETPLACE_API)")
	root.PersistentFlags().StringVar(&c.sessionPath, "session", "", "archivo de sesión (por defecto en el directorio de configuración del usuario)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", client.DefaultTimeout, "timeout por petición")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log detallado en stderr")

	root.AddCommand(
		newLoginCommand(c),
		newLogoutCommand(c),
		newWhoamiCommand(c),
		newProductsCommand(c),
		newDashboardCommand(c),
		newActivityCommand(c),
		newMigrateCommand(),
		newSeedCommand(),
	)
	return root
}

func (c *cli) logger() *logger.Logger {
	if !c.verbose {
		return logger.Nop()
	}
	return logger.New(logger.Config{Env: "development", Level: "debug", Output: os.Stderr})
}

func (c *cli) client() *client.Client {
	return client.New(c.apiURL, client.WithTimeout(c.timeout))
}

func (c *cli) manager() (*session.Manager, error) {
	path := c.sessionPath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return session.NewManager(c.client(), session.NewFileStore(path), session.WithLogger(c.logger())), nil
}

// authed devuelve un cliente con el token de la sesión local.
func (c *cli) authed() (*client.Client, error) {
	mgr, err := c.manager()
	if err != nil {
		return nil, err
	}
	token, err := mgr.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errNoSession
	}
	return c.client().WithToken(token), nil
}
