package routes

import (
	"fmt"

	"jungadmin/db"
	"jungadmin/logger"
	"jungadmin/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func createCategory(c *fiber.Ctx) error {
	category := new(models.Category)
	if err := c.BodyParser(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if err := validate.Struct(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category name is required",
		})
	}

	// Ensure Questions field is empty when creating a new category
	category.Questions = nil

	if err := db.DB.Create(&category).Error; err != nil {
		logger.L.WithError(err).Error("failed to create category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create category",
		})
	}

	notifyChange("category", "created", category.ID)
	return c.Status(fiber.StatusCreated).JSON(toCategoryView(*category))
}

// getAllCategories returns the full category tree the dashboard renders:
// categories with their questions and answer texts.
func getAllCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := db.DB.Preload("Questions.Answers").Order("name ASC").Find(&categories).Error; err != nil {
		logger.L.WithError(err).Error("failed to fetch categories")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get categories",
		})
	}

	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, toCategoryView(category))
	}
	return c.JSON(fiber.Map{"categories": views})
}

func getCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	var category models.Category

	if err := db.DB.Preload("Questions.Answers").First(&category, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	return c.JSON(toCategoryView(category))
}

func updateCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	category := new(models.Category)

	if err := c.BodyParser(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	var existingCategory models.Category
	if err := db.DB.First(&existingCategory, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	category.Questions = nil
	if err := db.DB.Model(&models.Category{}).Where("id = ?", id).Updates(category).Error; err != nil {
		logger.L.WithError(err).Error("failed to update category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update category",
		})
	}

	notifyChange("category", "updated", existingCategory.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category updated successfully",
	})
}

// deleteCategory removes a category and everything beneath it in dependency
// order: product links, answers, questions, then the category itself. The
// whole cascade runs in one transaction, and each step's affected row count
// is checked against the pre-counted rows so a mismatch aborts the delete.
func deleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")

	var category models.Category
	if err := db.DB.First(&category, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	var questionIDs []uint
	if err := db.DB.Model(&models.Question{}).Where("category_id = ?", category.ID).
		Pluck("id", &questionIDs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to collect questions",
		})
	}

	var answerIDs []uint
	if len(questionIDs) > 0 {
		if err := db.DB.Model(&models.Answer{}).Where("question_id IN ?", questionIDs).
			Pluck("id", &answerIDs).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to collect answers",
			})
		}
	}

	var linkCount int64
	if len(answerIDs) > 0 {
		if err := db.DB.Model(&models.ProductAnswer{}).Where("answer_id IN ?", answerIDs).
			Count(&linkCount).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to count product links",
			})
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if len(answerIDs) > 0 {
			res := tx.Where("answer_id IN ?", answerIDs).Delete(&models.ProductAnswer{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != linkCount {
				return fmt.Errorf("expected %d product link deletions, got %d", linkCount, res.RowsAffected)
			}

			res = tx.Where("id IN ?", answerIDs).Delete(&models.Answer{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(answerIDs)) {
				return fmt.Errorf("expected %d answer deletions, got %d", len(answerIDs), res.RowsAffected)
			}
		}

		if len(questionIDs) > 0 {
			res := tx.Where("id IN ?", questionIDs).Delete(&models.Question{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(questionIDs)) {
				return fmt.Errorf("expected %d question deletions, got %d", len(questionIDs), res.RowsAffected)
			}
		}

		return tx.Delete(&models.Category{}, category.ID).Error
	})
	if err != nil {
		logger.L.WithError(err).WithField("category_id", category.ID).Error("cascade delete failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete category: " + err.Error(),
		})
	}

	notifyChange("category", "deleted", category.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category deleted successfully",
	})
}
