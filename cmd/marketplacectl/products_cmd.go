package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
)

const (
	statusFlag      = "status"
	limitFlag       = "limit"
	offsetFlag      = "offset"
	nameFlag        = "name"
	descriptionFlag = "description"
	priceFlag       = "price"
	categoryFlag    = "category"
	reasonFlag      = "reason"
)

func newProductsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Gestión de productos",
	}
	cmd.AddCommand(
		newProductsListCommand(c),
		newProductsCreateCommand(c),
		newTransitionCommand(c, "submit", "Envía el producto a aprobación"),
		newTransitionCommand(c, "approve", "Aprueba el producto"),
		newTransitionCommand(c, "reject", "Rechaza el producto"),
		newProductsEditCommand(c),
		newProductsDeleteCommand(c),
		newProductsHistoryCommand(c),
	)
	return cmd
}

func newProductsListCommand(c *cli) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		statusFlag:   &cobraflags.StringFlag{Name: statusFlag, Usage: "Filtra por estado (draft, pending_approval, approved, rejected)"},
		categoryFlag: &cobraflags.StringFlag{Name: categoryFlag, Usage: "Filtra por categoría"},
		limitFlag:    &cobraflags.StringFlag{Name: limitFlag, Value: "20", Usage: "Elementos por página"},
		offsetFlag:   &cobraflags.StringFlag{Name: offsetFlag, Value: "0", Usage: "Desplazamiento"},
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los productos visibles para la sesión",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := intFlag(flags, limitFlag)
			if err != nil {
				return err
			}
			offset, err := intFlag(flags, offsetFlag)
			if err != nil {
				return err
			}
			api, err := c.authed()
			if err != nil {
				return err
			}
			list, err := api.ListProducts(cmd.Context(), dto.ProductListRequest{
				PageRequest: dto.PageRequest{Limit: limit, Offset: offset},
				Status:      flags[statusFlag].GetString(),
				Category:    flags[categoryFlag].GetString(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProducts(list))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newProductsCreateCommand(c *cli) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		nameFlag:        &cobraflags.StringFlag{Name: nameFlag, Usage: "Nombre"},
		descriptionFlag: &cobraflags.StringFlag{Name: descriptionFlag, Usage: "Descripción"},
		priceFlag:       &cobraflags.StringFlag{Name: priceFlag, Usage: "Precio (ej. 19.99)"},
		categoryFlag:    &cobraflags.StringFlag{Name: categoryFlag, Usage: "Categoría (opcional)"},
	}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un producto en draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			price, err := decimal.NewFromString(flags[priceFlag].GetString())
			if err != nil {
				return fmt.Errorf("--price inválido: %w", err)
			}
			api, err := c.authed()
			if err != nil {
				return err
			}
			p, err := api.CreateProduct(cmd.Context(), dto.CreateProductRequest{
				Name:        flags[nameFlag].GetString(),
				Description: flags[descriptionFlag].GetString(),
				Category:    flags[categoryFlag].GetString(),
				Price:       price,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProduct(p))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// newTransitionCommand submit, approve y reject comparten forma: ID y motivo opcional.
func newTransitionCommand(c *cli, action, short string) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		reasonFlag: &cobraflags.StringFlag{Name: reasonFlag, Usage: "Motivo (queda en el historial)"},
	}
	cmd := &cobra.Command{
		Use:   action + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.authed()
			if err != nil {
				return err
			}
			p, err := api.TransitionProduct(cmd.Context(), args[0], dto.TransitionRequest{
				Action: action,
				Reason: flags[reasonFlag].GetString(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProduct(p))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newProductsEditCommand(c *cli) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		nameFlag:        &cobraflags.StringFlag{Name: nameFlag, Usage: "Nuevo nombre"},
		descriptionFlag: &cobraflags.StringFlag{Name: descriptionFlag, Usage: "Nueva descripción"},
		priceFlag:       &cobraflags.StringFlag{Name: priceFlag, Usage: "Nuevo precio"},
		categoryFlag:    &cobraflags.StringFlag{Name: categoryFlag, Usage: "Nueva categoría (vacía la quita)"},
	}
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edita nombre, descripción, categoría o precio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dto.TransitionRequest{Action: "edit"}
			if cmd.Flags().Changed(nameFlag) {
				v := flags[nameFlag].GetString()
				in.Name = &v
			}
			if cmd.Flags().Changed(descriptionFlag) {
				v := flags[descriptionFlag].GetString()
				in.Description = &v
			}
			if cmd.Flags().Changed(categoryFlag) {
				v := flags[categoryFlag].GetString()
				in.Category = &v
			}
			if cmd.Flags().Changed(priceFlag) {
				price, err := decimal.NewFromString(flags[priceFlag].GetString())
				if err != nil {
					return fmt.Errorf("--price inválido: %w", err)
				}
				in.Price = &price
			}
			if in.Name == nil && in.Description == nil && in.Category == nil && in.Price == nil {
				return errors.New("indique al menos --name, --description, --category o --price")
			}
			api, err := c.authed()
			if err != nil {
				return err
			}
			p, err := api.TransitionProduct(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProduct(p))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newProductsDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Elimina un producto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.authed()
			if err != nil {
				return err
			}
			if err := api.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Producto %s eliminado\n", args[0])
			return nil
		},
	}
}

func newProductsHistoryCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Muestra el historial de auditoría",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.authed()
			if err != nil {
				return err
			}
			events, err := api.ProductHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(events))
			return nil
		},
	}
}

func newDashboardCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Muestra el dashboard del rol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := c.authed()
			if err != nil {
				return err
			}
			d, err := api.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDashboard(d))
			return nil
		},
	}
}

func newActivityCommand(c *cli) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		limitFlag: &cobraflags.StringFlag{Name: limitFlag, Value: "20", Usage: "Cantidad de eventos"},
	}
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Últimos eventos de auditoría de la empresa",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := intFlag(flags, limitFlag)
			if err != nil {
				return err
			}
			api, err := c.authed()
			if err != nil {
				return err
			}
			feed, err := api.Activities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderActivities(feed))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func intFlag(flags map[string]cobraflags.Flag, name string) (int, error) {
	n, err := strconv.Atoi(flags[name].GetString())
	if err != nil || n < 0 {
		return 0, fmt.Errorf("--%s debe ser un entero no negativo", name)
	}
	return n, nil
}
