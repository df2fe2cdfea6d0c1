package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"kurtikart/internal/domain"
	applog "kurtikart/internal/log"
	"kurtikart/internal/services"
	"kurtikart/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// mutation envelope: redirect is set only on the unauthenticated add path
type cartResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func ok(c *fiber.Ctx, msg string) error {
	return c.JSON(cartResult{Success: true, Message: msg})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(cartResult{Success: false, Message: msg})
}

// cartError maps the service taxonomy onto the envelope. loginRedirect, when
// non-empty, rides along on AuthRequired.
func cartError(c *fiber.Ctx, err error, loginRedirect string) error {
	var vErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &vErr):
		return fail(c, fiber.StatusBadRequest, vErr.Msg)
	case errors.As(err, &stockErr):
		return fail(c, fiber.StatusConflict, stockErr.Error()+". Please reduce quantity.")
	case errors.Is(err, domain.ErrAuthRequired):
		res := cartResult{Success: false, Message: "Please login to manage cart", Redirect: loginRedirect}
		return c.Status(fiber.StatusUnauthorized).JSON(res)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Cart item not found")
	case errors.Is(err, domain.ErrSizeNotInLine):
		return fail(c, fiber.StatusBadRequest, "Size not found in cart item")
	}
	applog.Error(c, "cart.mutation.error", err, nil)
	return fail(c, fiber.StatusInternalServerError, "Failed to update cart")
}

// View returns the cart payload, or the login redirect for anonymous
// callers. Read failures degrade to an empty cart.
func (h *CartHandler) View(c *fiber.Ctx) error {
	ensureSID(c)
	cv, err := h.Cart.Get(currentUserID(c))
	if err != nil {
		applog.Error(c, "cart.view.error", err, nil)
		return c.JSON(services.CartView{Items: []services.CartLine{}})
	}
	if cv == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(cartResult{
			Success:  false,
			Message:  "Please login to view cart",
			Redirect: "/login?redirect=" + url.QueryEscape("/cart"),
		})
	}
	return c.JSON(cv)
}

// Count backs the header badge. Always 200; absence of a session means an
// empty cart, not a failure.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"count": h.Cart.Count(currentUserID(c))})
}

type addInput struct {
	KurtiID  string `json:"kurtiId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	ensureSID(c)
	var in addInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	kurtiID, idOK := validate.ID(in.KurtiID)
	size, sizeOK := validate.SizeLabel(in.Size)
	if !idOK || !sizeOK {
		applog.Security(c, "validation.fail", map[string]any{"field": "cart.add"})
		return fail(c, fiber.StatusBadRequest, "Invalid product or size")
	}

	if err := h.Cart.Add(currentUserID(c), kurtiID, size, in.Quantity); err != nil {
		redirect := "/login?redirect=" + url.QueryEscape("/kurtis/"+kurtiID)
		return cartError(c, err, redirect)
	}
	applog.Audit(c, "cart.add", map[string]any{"kurti": kurtiID, "size": size, "qty": in.Quantity})
	return ok(c, "Item added to cart successfully")
}

type updateInput struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	lineID, idOK := validate.ID(c.Params("id"))
	if !idOK {
		return fail(c, fiber.StatusBadRequest, "Invalid cart item")
	}
	var in updateInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	size, sizeOK := validate.SizeLabel(in.Size)
	if !sizeOK {
		return fail(c, fiber.StatusBadRequest, "Invalid size")
	}

	if err := h.Cart.UpdateQuantity(currentUserID(c), lineID, size, in.Quantity); err != nil {
		return cartError(c, err, "")
	}
	applog.Audit(c, "cart.update", map[string]any{"line": lineID, "size": size, "qty": in.Quantity})
	return ok(c, "Cart updated successfully")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	lineID, idOK := validate.ID(c.Params("id"))
	if !idOK {
		return fail(c, fiber.StatusBadRequest, "Invalid cart item")
	}
	if err := h.Cart.Remove(currentUserID(c), lineID); err != nil {
		return cartError(c, err, "")
	}
	applog.Audit(c, "cart.remove", map[string]any{"line": lineID})
	return ok(c, "Item removed from cart")
}
