package routes

import (
	"strings"

	"jungadmin/db"
	"jungadmin/logger"
	"jungadmin/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuestionRequest struct {
	CategoryID   uint          `json:"category_id"`
	Text         string        `json:"text"`
	Answers      []AnswerInput `json:"answers"`
	RemovedLinks []LinkKey     `json:"removed_links"`
}

func getQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	var question models.Question

	if err := db.DB.Preload("Answers").First(&question, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	links, err := linksForAnswers(question.Answers)
	if err != nil {
		logger.L.WithError(err).Error("failed to fetch product links")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get product links",
		})
	}

	return c.JSON(toQuestionView(question, links))
}

// createQuestion inserts a question, then its non-empty answers, then the
// product links, in that order. A failure aborts the remaining inserts but
// does not undo the earlier ones.
func createQuestion(c *fiber.Ctx) error {
	req := new(QuestionRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question text is required",
		})
	}

	// Validate that the category exists
	var category models.Category
	if err := db.DB.First(&category, req.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	// Validate that every referenced product exists before any row is written
	ok, err := productsExist(distinctProductIDs(req.Answers))
	if err != nil {
		logger.L.WithError(err).Error("failed to validate products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to validate products",
		})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	question := models.Question{Text: strings.TrimSpace(req.Text), CategoryID: category.ID}
	if err := db.DB.Create(&question).Error; err != nil {
		logger.L.WithError(err).Error("failed to create question")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create question",
		})
	}

	rows, _ := planAnswers(nil, req.Answers)
	for i := range rows {
		answer := models.Answer{Text: rows[i].Text, QuestionID: question.ID}
		if err := db.DB.Create(&answer).Error; err != nil {
			logger.L.WithError(err).Error("failed to create answer")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create answer",
			})
		}
		rows[i].ID = answer.ID
		question.Answers = append(question.Answers, answer)
	}

	newLinks := planNewLinks(nil, rows)
	if len(newLinks) > 0 {
		if err := db.DB.Create(&newLinks).Error; err != nil {
			logger.L.WithError(err).Error("failed to create product links")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create product links",
			})
		}
	}

	notifyChange("question", "created", question.ID)
	return c.Status(fiber.StatusCreated).JSON(toQuestionView(question, newLinks))
}

// updateQuestion reconciles the persisted question aggregate with the
// submitted form: kept answers are updated in place, new rows inserted,
// vanished rows deleted (links first), explicitly removed product links
// deleted one pair per call, and missing desired links batch-inserted.
func updateQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	req := new(QuestionRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question text is required",
		})
	}

	var question models.Question
	if err := db.DB.First(&question, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	// Validate that every referenced product exists before mutating anything
	ok, err := productsExist(distinctProductIDs(req.Answers))
	if err != nil {
		logger.L.WithError(err).Error("failed to validate products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to validate products",
		})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	// Step 1: update the question text
	if err := db.DB.Model(&models.Question{}).Where("id = ?", question.ID).
		Update("text", strings.TrimSpace(req.Text)).Error; err != nil {
		logger.L.WithError(err).Error("failed to update question")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update question",
		})
	}

	// Step 2: fetch existing answers and their product links
	var existingAnswers []models.Answer
	if err := db.DB.Where("question_id = ?", question.ID).Find(&existingAnswers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch answers",
		})
	}
	existingLinks, err := linksForAnswers(existingAnswers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product links",
		})
	}

	// Step 3: update kept answers in place, insert new ones
	rows, deleteIDs := planAnswers(existingAnswers, req.Answers)
	for i := range rows {
		if rows[i].IsNew {
			answer := models.Answer{Text: rows[i].Text, QuestionID: question.ID}
			if err := db.DB.Create(&answer).Error; err != nil {
				logger.L.WithError(err).Error("failed to insert answer")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to insert answer",
				})
			}
			rows[i].ID = answer.ID
		} else {
			if err := db.DB.Model(&models.Answer{}).Where("id = ?", rows[i].ID).
				Update("text", rows[i].Text).Error; err != nil {
				logger.L.WithError(err).Error("failed to update answer")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to update answer",
				})
			}
		}
	}

	// Step 4: delete vanished answers, their links first
	if len(deleteIDs) > 0 {
		if err := db.DB.Where("answer_id IN ?", deleteIDs).Delete(&models.ProductAnswer{}).Error; err != nil {
			logger.L.WithError(err).Error("failed to delete product links")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete product links",
			})
		}
		if err := db.DB.Where("id IN ?", deleteIDs).Delete(&models.Answer{}).Error; err != nil {
			logger.L.WithError(err).Error("failed to delete answers")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete answers",
			})
		}
	}

	// Step 5: drop explicitly removed links, one pair per call
	for _, link := range req.RemovedLinks {
		if err := db.DB.Where("answer_id = ? AND product_id = ?", link.AnswerID, link.ProductID).
			Delete(&models.ProductAnswer{}).Error; err != nil {
			logger.L.WithError(err).
				WithField("answer_id", link.AnswerID).
				WithField("product_id", link.ProductID).
				Error("failed to delete product link")
		}
	}

	// Step 6: insert links desired by the form but not yet persisted
	newLinks := planNewLinks(existingLinks, rows)
	if len(newLinks) > 0 {
		if err := db.DB.Create(&newLinks).Error; err != nil {
			logger.L.WithError(err).Error("failed to insert product links")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to insert product links",
			})
		}
	}

	notifyChange("question", "updated", question.ID)

	// Respond with the reconciled aggregate so the client can update its
	// local state without a re-fetch.
	view := QuestionView{
		ID:         question.ID,
		Text:       strings.TrimSpace(req.Text),
		CategoryID: question.CategoryID,
		Answers:    make([]AnswerView, 0, len(rows)),
	}
	for _, row := range rows {
		ids := row.ProductIDs
		if ids == nil {
			ids = []uint{}
		}
		view.Answers = append(view.Answers, AnswerView{ID: row.ID, Text: row.Text, ProductIDs: ids})
	}
	return c.JSON(view)
}

// deleteQuestion removes a question, its answers, and their product links
// in dependency order inside one transaction.
func deleteQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	var question models.Question
	if err := db.DB.First(&question, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Question not found",
		})
	}

	var answerIDs []uint
	if err := db.DB.Model(&models.Answer{}).Where("question_id = ?", question.ID).
		Pluck("id", &answerIDs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to collect answers",
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.ProductAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", answerIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Question{}, question.ID).Error
	})
	if err != nil {
		logger.L.WithError(err).WithField("question_id", question.ID).Error("cascade delete failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete question",
		})
	}

	notifyChange("question", "deleted", question.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Question deleted successfully",
	})
}

// distinctProductIDs collects the distinct non-zero product ids referenced
// across the submitted answer rows.
func distinctProductIDs(answers []AnswerInput) []uint {
	seen := make(map[uint]bool)
	ids := make([]uint, 0)
	for _, a := range answers {
		for _, pid := range a.ProductIDs {
			if pid == 0 || seen[pid] {
				continue
			}
			seen[pid] = true
			ids = append(ids, pid)
		}
	}
	return ids
}

// productsExist reports whether every id names a persisted product.
func productsExist(ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	if err := db.DB.Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return int(count) == len(ids), nil
}

// linksForAnswers fetches the product links for a set of answers.
func linksForAnswers(answers []models.Answer) ([]models.ProductAnswer, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	answerIDs := make([]uint, 0, len(answers))
	for _, a := range answers {
		answerIDs = append(answerIDs, a.ID)
	}
	var links []models.ProductAnswer
	if err := db.DB.Where("answer_id IN ?", answerIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
