package cmd

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bikepoint/sprocket/core"
	"github.com/bikepoint/sprocket/internal/contract"
)

// cartCmd groups all shopping basket operations.
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping basket.",
	Long: `Manage the shopping basket: view it, add or remove services, change
quantities, and check out.

A service added before logging in is staged locally and synced to the
server automatically once you log in and run any cart command.

Subcommands:
  show     - Display the basket contents
  add      - Add a repair service to the basket
  remove   - Remove an item from the basket
  update   - Change the quantity of an item
  clear    - Empty the basket
  checkout - Place an order for the basket contents

Examples:
  # View the basket
  sprocket cart show

  # Add two of service 42
  sprocket cart add 42 --quantity 2

  # Place the order
  sprocket cart checkout`,
}

// loadBasket builds a basket over the shared storefront and loads it.
func loadBasket() *core.Basket {
	basket := core.NewBasket(storefront)
	basket.Load(rootCtx)
	return basket
}

// cartShowCmd displays the basket contents.
var cartShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Display the basket contents.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		basket := loadBasket()
		if err := writer.WriteCart(basket.Items(), basket.Total(), cfg); err != nil {
			contract.LogFatal("Cannot write cart", err)
		}
	},
}

// cartAddCmd adds a repair service to the basket.
var cartAddCmd = &cobra.Command{
	Use:   "add <service-id>",
	Short: "Add a repair service to the basket.",
	Long: `Add a repair service to the basket by its catalog ID. Adding a service
that is already in the basket leaves the basket unchanged; use
'cart update' to change quantities.

Examples:
  # Add one unit of service 42
  sprocket cart add 42

  # Add three units
  sprocket cart add 42 --quantity 3`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		serviceID, err := strconv.Atoi(args[0])
		if err != nil {
			contract.LogFatal("Invalid service ID", err)
		}
		svc, err := storefront.GetService(rootCtx, serviceID)
		if err != nil {
			contract.LogFatal("Cannot fetch service", err)
		}

		basket := loadBasket()
		if err := basket.AddService(rootCtx, svc, viper.GetInt("quantity")); err != nil {
			contract.LogFatal("Cannot add to cart", err)
		}
		cmd.Printf("Added %s to the basket.\n", svc.Name)
		if !storefront.LoggedIn() {
			cmd.Println("Not logged in; the item is staged locally and will sync after login.")
		}
	},
}

// cartRemoveCmd removes an item from the basket.
var cartRemoveCmd = &cobra.Command{
	Use:     "remove <item-id>",
	Short:   "Remove an item from the basket.",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			contract.LogFatal("Invalid item ID", err)
		}
		basket := loadBasket()
		if err := basket.Remove(rootCtx, itemID); err != nil {
			contract.LogFatal("Cannot remove item", err)
		}
		cmd.Printf("Removed item %d. %d items remain.\n", itemID, len(basket.Items()))
	},
}

// cartUpdateCmd changes the quantity of a basket item.
var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change the quantity of a basket item.",
	Long: `Change the quantity of an item already in the basket. Quantities below
one are ignored; use 'cart remove' to drop an item entirely.

Examples:
  # Set item 1001 to quantity 2
  sprocket cart update 1001 2`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			contract.LogFatal("Invalid item ID", err)
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			contract.LogFatal("Invalid quantity", err)
		}
		basket := loadBasket()
		if err := basket.UpdateQuantity(rootCtx, itemID, quantity); err != nil {
			contract.LogFatal("Cannot update item", err)
		}
		cmd.Printf("Basket total is now %s.\n", basket.Total())
	},
}

// cartClearCmd empties the basket.
var cartClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Empty the basket.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if !viper.GetBool("yes") && !confirm(cmd, "Empty the basket?") {
			cmd.Println("Aborted.")
			return
		}
		basket := loadBasket()
		basket.Clear(rootCtx)
		cmd.Println("Basket emptied.")
	},
}

// cartCheckoutCmd places an order for the basket contents.
var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the basket contents.",
	Long: `Place an order for everything in the basket. Requires a logged-in
session; any locally staged item is synced to the server first.

Examples:
  sprocket cart checkout`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		basket := loadBasket()
		order, err := basket.Checkout(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot check out", err)
		}
		cmd.Printf("Order #%d placed: %d items, total %s.\n", order.ID, order.ItemCount, order.Total)
	},
}

// confirm asks a yes/no question on stdin and returns the answer.
func confirm(cmd *cobra.Command, prompt string) bool {
	cmd.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
