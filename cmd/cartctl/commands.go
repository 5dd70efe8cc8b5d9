package main

import (
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSubmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "submit [product-id...]",
		Short: "Submit the page's add-to-cart forms",
		Long: `Binds the add-to-cart forms of --page and submits them, each adding one unit
of its product. With arguments only forms for those product IDs are submitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.ctrl.Bind() == 0 {
				return fmt.Errorf("no add-to-cart forms found on the page")
			}

			submitted := 0
			for _, form := range a.doc.Forms() {
				if len(args) > 0 && !slices.Contains(args, form.ProductID()) {
					continue
				}

				e := form.Submit(cmd.Context())
				if !e.DefaultPrevented() {
					fmt.Fprintf(cmd.ErrOrStderr(), "form for product %q was not intercepted\n", form.ProductID())
				}
				submitted++
			}

			a.ctrl.Wait()

			if submitted == 0 {
				return fmt.Errorf("no add-to-cart form matches %v", args)
			}

			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.ctrl.AddToCart(cmd.Context(), args[0])
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <item-id> <quantity>",
		Short: "Set the quantity of a cart item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity[%s] is not an integer", args[1])
			}

			a.ctrl.UpdateCartQuantity(cmd.Context(), args[0], quantity)
			return nil
		},
	}
}

func newRemoveCmd(a *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item from the cart and its row from the page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.ctrl.RemoveFromCart(cmd.Context(), args[0])

			return writePage(a.doc, flags.outPath, cmd.OutOrStdout())
		},
	}
}

func newRowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "List the cart rows rendered on the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.doc.CartRows()
			if err != nil {
				return fmt.Errorf("doc.CartRows: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ITEM\tPRODUCT\tQUANTITY\tPRICE")
			for _, r := range rows {
				price := "-"
				if r.Price != nil {
					price = r.Price.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ItemID, r.ProductID, r.Quantity, price)
			}

			return w.Flush()
		},
	}
}
