package routes

import (
	"regexp"
	"strings"

	"jungadmin/db"
	"jungadmin/logger"
	"jungadmin/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// The dashboard shows a fixed-size page of products.
const productPageSize = 5

var numericQuery = regexp.MustCompile(`^[0-9]+$`)

type ProductListResponse struct {
	Products   []ProductView `json:"products"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// getAllProducts returns one 1-based page of products. A purely numeric
// search term matches the id exactly; anything else is a case-insensitive
// substring match on the name.
func getAllProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid page parameter",
		})
	}
	search := strings.TrimSpace(c.Query("q"))

	dbQuery := db.DB.Model(&models.Product{})
	if search != "" {
		if numericQuery.MatchString(search) {
			dbQuery = dbQuery.Where("id = ?", search)
		} else {
			dbQuery = dbQuery.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		logger.L.WithError(err).Error("failed to count products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count products",
		})
	}

	var products []models.Product
	if err := dbQuery.
		Order("updated_at DESC").
		Order("created_at DESC").
		Offset((page - 1) * productPageSize).
		Limit(productPageSize).
		Find(&products).Error; err != nil {
		logger.L.WithError(err).Error("failed to fetch products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get products",
		})
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}

	return c.JSON(ProductListResponse{
		Products:   views,
		Total:      int(total),
		Page:       page,
		TotalPages: int((total + productPageSize - 1) / productPageSize),
	})
}

// getProductOptions lists every product as an id/name pair for the
// answer-assignment picker in the question editor.
func getProductOptions(c *fiber.Ctx) error {
	var products []models.Product
	if err := db.DB.Order("name ASC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get products",
		})
	}

	options := make([]ProductOption, 0, len(products))
	for _, p := range products {
		options = append(options, ProductOption{ID: p.ID, Name: p.Name})
	}
	return c.JSON(fiber.Map{"products": options})
}

func getProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product

	if err := db.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	return c.JSON(toProductView(product))
}

func createProduct(c *fiber.Ctx) error {
	product := new(models.Product)
	if err := c.BodyParser(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if err := validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product name is required",
		})
	}

	if err := db.DB.Create(&product).Error; err != nil {
		logger.L.WithError(err).Error("failed to create product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}

	notifyChange("product", "created", product.ID)
	return c.Status(fiber.StatusCreated).JSON(toProductView(*product))
}

func updateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	product := new(models.Product)

	if err := c.BodyParser(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	var existingProduct models.Product
	if err := db.DB.First(&existingProduct, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	if err := db.DB.Model(&models.Product{}).Where("id = ?", id).Updates(product).Error; err != nil {
		logger.L.WithError(err).Error("failed to update product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}

	notifyChange("product", "updated", existingProduct.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
	})
}

// deleteProduct removes a product together with its answer links, so no
// link row is ever left pointing at a missing product.
func deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var product models.Product
	if err := db.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, product.ID).Error
	})
	if err != nil {
		logger.L.WithError(err).Error("failed to delete product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}

	notifyChange("product", "deleted", product.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}
