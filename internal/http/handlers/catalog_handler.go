package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kurtikart/internal/domain"
	applog "kurtikart/internal/log"
	"kurtikart/internal/services"
	"kurtikart/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func emptyListing() *services.KurtiListing {
	return &services.KurtiListing{
		Kurtis:     []services.KurtiView{},
		Categories: []domain.Category{},
		Sizes:      []string{},
	}
}

// Kurtis serves the kurtis page: optional new-releases window, kurti-type
// and size filters. Failures degrade to an empty listing so the page still
// renders.
func (h *CatalogHandler) Kurtis(c *fiber.Ctx) error {
	filter := strings.TrimSpace(c.Query("filter"))
	kurtiType := strings.TrimSpace(c.Query("kurtiType"))
	size := strings.TrimSpace(c.Query("size"))

	listing, err := h.Catalog.WithFilters(filter, kurtiType, size)
	if err != nil {
		applog.Error(c, "catalog.kurtis.error", err, nil)
		return c.JSON(emptyListing())
	}
	return c.JSON(listing)
}

// Browse serves the category browse flow (category resolved by code or
// name, with the raw-field fallback).
func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	size := strings.TrimSpace(c.Query("size"))

	listing, err := h.Catalog.ByCategoryAndSize(category, size)
	if err != nil {
		applog.Error(c, "catalog.browse.error", err, nil)
		return c.JSON(emptyListing())
	}
	return c.JSON(listing)
}

func (h *CatalogHandler) NewReleases(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "8"))
	ks, err := h.Catalog.NewReleases(limit)
	if err != nil {
		applog.Error(c, "catalog.newreleases.error", err, nil)
		ks = []services.KurtiView{}
	}
	return c.JSON(fiber.Map{"kurtis": ks})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, idOK := validate.ID(c.Params("id"))
	if !idOK {
		applog.Security(c, "validation.fail", map[string]any{"field": "kurti"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	k, err := h.Catalog.GetKurti(id)
	if err != nil {
		applog.Error(c, "catalog.detail.error", err, nil)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	if k == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	return c.JSON(k)
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "catalog.categories.error", err, nil)
		cats = []domain.Category{}
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *CatalogHandler) KurtiTypes(c *fiber.Ctx) error {
	types, err := h.Catalog.KurtiTypes()
	if err != nil {
		applog.Error(c, "catalog.kurtitypes.error", err, nil)
		types = []services.KurtiType{}
	}
	return c.JSON(fiber.Map{"kurtiTypes": types})
}

// Offers serves the promotional offers strip; failures degrade to an empty
// list the same way the listings do.
func (h *CatalogHandler) Offers(c *fiber.Ctx) error {
	offers, err := h.Catalog.Offers()
	if err != nil {
		applog.Error(c, "catalog.offers.error", err, nil)
		offers = []services.OfferView{}
	}
	return c.JSON(fiber.Map{"offers": offers})
}

func (h *CatalogHandler) OfferDetail(c *fiber.Ctx) error {
	id, idOK := validate.ID(c.Params("id"))
	if !idOK {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offer not found"})
	}
	o, err := h.Catalog.GetOffer(id)
	if err != nil {
		applog.Error(c, "catalog.offer.error", err, nil)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offer not found"})
	}
	if o == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offer not found"})
	}
	return c.JSON(o)
}

// OtherProducts is the paginated listing the infinite scroll consumes.
func (h *CatalogHandler) OtherProducts(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	productType := strings.TrimSpace(c.Query("productType"))
	subType := strings.TrimSpace(c.Query("subType"))
	skip, take := validate.Page(c.Query("skip"), c.Query("take"))

	listing, err := h.Catalog.OtherProducts(category, productType, subType, skip, take)
	if err != nil {
		applog.Error(c, "catalog.products.error", err, nil)
		return c.JSON(services.OtherListing{Products: []services.OtherProductView{}})
	}
	return c.JSON(listing)
}

// OtherProductDetail resolves a shared product link directly by id.
func (h *CatalogHandler) OtherProductDetail(c *fiber.Ctx) error {
	id, idOK := validate.ID(c.Params("id"))
	if !idOK {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	p, err := h.Catalog.OtherProductByID(id)
	if err != nil {
		applog.Error(c, "catalog.product.error", err, nil)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	return c.JSON(p)
}
