// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bikepoint/sprocket/core"
	"github.com/bikepoint/sprocket/internal/netmon"
)

// NewMCPServer initializes and configures the Sprocket MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(sf *core.Storefront, monitor *netmon.Monitor) *server.MCPServer {
	s := server.NewMCPServer(
		"BikePoint Storefront Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		sf:      sf,
		monitor: monitor,
	}

	// --- 1. Tool: list_services ---
	s.AddTool(mcp.NewTool("list_services",
		mcp.WithDescription("List the repair services offered by the storefront."),
		mcp.WithString("category", mcp.Description("Only return services in this category.")),
	), h.handleListServices)

	// --- 2. Tool: list_vehicles ---
	s.AddTool(mcp.NewTool("list_vehicles",
		mcp.WithDescription("List used vehicles on the marketplace."),
		mcp.WithString("brand", mcp.Description("Only return listings for this brand.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListVehicles)

	// --- 3. Tool: get_cart ---
	s.AddTool(mcp.NewTool("get_cart",
		mcp.WithDescription("Show the current shopping basket, including items staged locally before login."),
	), h.handleGetCart)

	// --- 4. Tool: add_to_cart ---
	s.AddTool(mcp.NewTool("add_to_cart",
		mcp.WithDescription("Add a repair service to the basket. Duplicate adds for a service already in the cart are suppressed."),
		mcp.WithNumber("service_id", mcp.Description("Id of the repair service to add."), mcp.Required()),
		mcp.WithNumber("quantity", mcp.Description("Quantity to add. Defaults to 1.")),
	), h.handleAddToCart)

	// --- 5. Tool: update_cart_item ---
	s.AddTool(mcp.NewTool("update_cart_item",
		mcp.WithDescription("Change the quantity of a basket item. Quantities below 1 are rejected."),
		mcp.WithNumber("item_id", mcp.Description("Id of the cart item (0 for the locally staged item)."), mcp.Required()),
		mcp.WithNumber("quantity", mcp.Description("New quantity, at least 1."), mcp.Required()),
	), h.handleUpdateCartItem)

	// --- 6. Tool: remove_cart_item ---
	s.AddTool(mcp.NewTool("remove_cart_item",
		mcp.WithDescription("Remove an item from the basket."),
		mcp.WithNumber("item_id", mcp.Description("Id of the cart item (0 for the locally staged item)."), mcp.Required()),
	), h.handleRemoveCartItem)

	// --- 7. Tool: checkout ---
	s.AddTool(mcp.NewTool("checkout",
		mcp.WithDescription("Place an order for the current basket. Requires a logged-in session."),
	), h.handleCheckout)

	// --- 8. Tool: check_network ---
	s.AddTool(mcp.NewTool("check_network",
		mcp.WithDescription("Probe the storefront health endpoint and report connectivity."),
		mcp.WithString("url", mcp.Description("Override the health endpoint to probe.")),
	), h.handleCheckNetwork)

	return s
}

// StartMCPServer starts the Sprocket MCP server.
func StartMCPServer(_ context.Context, sf *core.Storefront, monitor *netmon.Monitor) error {
	s := NewMCPServer(sf, monitor)
	return server.ServeStdio(s)
}
