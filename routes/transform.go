package routes

import (
	"time"

	"jungadmin/models"
)

// View shapes decouple the UI-facing field names from the raw row shapes
// and fill defaults where columns are nullable.

type ProductView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

type ProductOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AnswerView struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	ProductIDs []uint `json:"product_ids"`
}

type QuestionView struct {
	ID         uint         `json:"id"`
	Text       string       `json:"text"`
	CategoryID uint         `json:"category_id"`
	Answers    []AnswerView `json:"answers"`
}

type CategoryView struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Questions   []QuestionView `json:"questions"`
}

type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProductView(p models.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.Image,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.UpdatedAt,
	}
	// Rows migrated before updated_at existed fall back to creation time.
	if v.LastUpdated.IsZero() {
		v.LastUpdated = p.CreatedAt
	}
	return v
}

// toQuestionView assembles the aggregate shape the editor works with. The
// links slice may span other questions; only pairs for q's answers are used.
func toQuestionView(q models.Question, links []models.ProductAnswer) QuestionView {
	productIDs := make(map[uint][]uint)
	for _, link := range links {
		productIDs[link.AnswerID] = append(productIDs[link.AnswerID], link.ProductID)
	}

	answers := make([]AnswerView, 0, len(q.Answers))
	for _, a := range q.Answers {
		ids := productIDs[a.ID]
		if ids == nil {
			ids = []uint{}
		}
		answers = append(answers, AnswerView{ID: a.ID, Text: a.Text, ProductIDs: ids})
	}

	return QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		CategoryID: q.CategoryID,
		Answers:    answers,
	}
}

func toCategoryView(cat models.Category) CategoryView {
	questions := make([]QuestionView, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		questions = append(questions, toQuestionView(q, nil))
	}
	return CategoryView{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
		Questions:   questions,
	}
}

func toUserView(u models.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
