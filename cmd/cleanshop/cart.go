package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/cleanshop/cart/internal/catalog"
	"github.com/cleanshop/cart/internal/checkout"
	"github.com/cleanshop/cart/internal/money"
)

// runCart opens the app with text views, runs fn under the command timeout
// and prints the cart afterwards.
func runCart(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), textViews)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTTL)
	defer cancel()

	if err := fn(ctx, a); err != nil {
		return err
	}
	printCart(cmd.OutOrStdout(), a)
	return nil
}

func printCart(w io.Writer, a *app) {
	p := a.primary.Frame()
	fmt.Fprint(w, p.Items)
	fmt.Fprintf(w, "Items: %s  Total: %s\n", p.Count, p.Total)
	if c := a.compact.Frame(); c.Items != "" {
		fmt.Fprintf(w, "Mini cart: %s (%s)\n", c.Items, c.Total)
	}
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Errorf("index %q is not a number", arg)
	}
	return index, nil
}

func newProductsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the product cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), textViews)
			if err != nil {
				return err
			}
			defer a.Close()

			products, err := a.products.GetAllProducts(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range products {
				fmt.Fprintf(w, "%d  %-20s %s\n", p.ID, p.Name, money.Format(p.Price))
			}
			return nil
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var name, price, image string

	cmd := &cobra.Command{
		Use:   "add [product-id]",
		Short: "Add one unit of a product to the cart",
		Long: `Add a product card by id, or an arbitrary item with
--name and --price.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && name == "" {
				return errors.New("either a product id or --name is required")
			}
			return runCart(cmd, opts, func(ctx context.Context, a *app) error {
				if len(args) == 1 {
					id, err := strconv.ParseInt(args[0], 10, 64)
					if err != nil {
						return errors.Errorf("product id %q is not a number", args[0])
					}
					_, err = catalog.AddToCart(ctx, a.products, a.store, id)
					return err
				}
				return a.store.AddRaw(ctx, name, price, image)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&price, "price", "", "unit price, e.g. 1500 or ₦1,500")
	cmd.Flags().StringVar(&image, "image", "", "image reference")
	return cmd
}

func newQtyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <index> <delta>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Errorf("delta %q is not a number", args[1])
			}
			return runCart(cmd, opts, func(ctx context.Context, a *app) error {
				return a.store.ChangeQuantity(ctx, index, delta)
			})
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove a cart line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return runCart(cmd, opts, func(ctx context.Context, a *app) error {
				return a.store.Remove(ctx, index)
			})
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCart(cmd, opts, func(ctx context.Context, a *app) error {
				return a.store.Clear(ctx)
			})
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCart(cmd, opts, func(context.Context, *app) error { return nil })
		},
	}
}

func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	var userAgent string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Print the WhatsApp order link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), textViews)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTTL)
			defer cancel()

			w := cmd.OutOrStdout()
			printLink := checkout.OpenerFunc(func(_ context.Context, link string) error {
				_, err := fmt.Fprintln(w, link)
				return err
			})

			order, err := a.checkout.Checkout(ctx, userAgent, printLink)
			if errors.Is(err, checkout.ErrEmptyCart) {
				fmt.Fprintln(w, "Cart is empty")
				return nil
			}
			if order != nil {
				fmt.Fprintf(w, "\n%s\n", order.Message)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "user agent used to choose the mobile or desktop link")
	return cmd
}
