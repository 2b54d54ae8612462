package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bikepoint/sprocket/core"
	"github.com/bikepoint/sprocket/internal/netmon"
	"github.com/bikepoint/sprocket/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	sf      *core.Storefront
	monitor *netmon.Monitor
}

// basketSnapshot is the JSON shape cart tools return.
type basketSnapshot struct {
	State schema.CartState  `json:"state"`
	Items []schema.CartItem `json:"items"`
	Total string            `json:"total"`
}

// loadBasket builds a basket reconciled against the session store and the
// server. Each tool call starts from a fresh basket so the snapshot never
// trails an external change.
func (h *toolHandler) loadBasket(ctx context.Context) *core.Basket {
	basket := core.NewBasket(h.sf)
	basket.Load(ctx)
	return basket
}

func snapshot(basket *core.Basket) basketSnapshot {
	return basketSnapshot{
		State: basket.State(),
		Items: basket.Items(),
		Total: basket.Total(),
	}
}

// serviceListing is a catalog entry annotated with its resolved display image.
type serviceListing struct {
	schema.Service
	Image string `json:"image"`
}

func (h *toolHandler) handleListServices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	services, err := h.sf.ListServices(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog fetch failed: %v", err)), nil
	}

	if category := request.GetString("category", ""); category != "" {
		filtered := services[:0]
		for _, svc := range services {
			if strings.EqualFold(svc.Category, category) {
				filtered = append(filtered, svc)
			}
		}
		services = filtered
	}

	images := h.sf.Images()
	listings := make([]serviceListing, len(services))
	for i, svc := range services {
		listings[i] = serviceListing{Service: svc, Image: images.Service(svc)}
	}

	jsonData, _ := json.MarshalIndent(listings, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListVehicles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicles, err := h.sf.ListVehicles(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marketplace fetch failed: %v", err)), nil
	}

	if brand := request.GetString("brand", ""); brand != "" {
		filtered := vehicles[:0]
		for _, v := range vehicles {
			if strings.EqualFold(v.Brand, brand) {
				filtered = append(filtered, v)
			}
		}
		vehicles = filtered
	}
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(vehicles) {
		vehicles = vehicles[:limit]
	}

	jsonData, _ := json.MarshalIndent(vehicles, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCart(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	basket := h.loadBasket(ctx)
	jsonData, _ := json.MarshalIndent(snapshot(basket), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAddToCart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serviceID := request.GetInt("service_id", 0)
	if serviceID <= 0 {
		return mcp.NewToolResultError("service_id is required"), nil
	}
	quantity := request.GetInt("quantity", 1)

	svc, err := h.sf.GetService(ctx, serviceID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown service %d: %v", serviceID, err)), nil
	}

	basket := h.loadBasket(ctx)
	if err := basket.AddService(ctx, svc, quantity); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snapshot(basket), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleUpdateCartItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := request.GetInt("item_id", -1)
	if itemID < 0 {
		return mcp.NewToolResultError("item_id is required"), nil
	}
	quantity := request.GetInt("quantity", 0)
	if quantity < 1 {
		return mcp.NewToolResultError("quantity must be at least 1"), nil
	}

	basket := h.loadBasket(ctx)
	if err := basket.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snapshot(basket), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRemoveCartItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := request.GetInt("item_id", -1)
	if itemID < 0 {
		return mcp.NewToolResultError("item_id is required"), nil
	}

	basket := h.loadBasket(ctx)
	if err := basket.Remove(ctx, itemID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snapshot(basket), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	basket := h.loadBasket(ctx)
	order, err := basket.Checkout(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("checkout failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(order, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckNetwork(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := h.monitor.Check(ctx, request.GetString("url", ""))
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
