package routes

import (
	"fmt"
	"net/http"
	"testing"

	"jungadmin/db"
	"jungadmin/models"

	"github.com/stretchr/testify/require"
)

// seedCategoryTree creates a category with n questions, m answers per
// question, and one product link per answer to each of the given products.
func seedCategoryTree(t *testing.T, name string, n, m int, products []models.Product) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.DB.Create(&category).Error)

	for q := 0; q < n; q++ {
		question := models.Question{Text: fmt.Sprintf("%s question %d?", name, q), CategoryID: category.ID}
		require.NoError(t, db.DB.Create(&question).Error)
		for a := 0; a < m; a++ {
			answer := models.Answer{Text: fmt.Sprintf("answer %d-%d", q, a), QuestionID: question.ID}
			require.NoError(t, db.DB.Create(&answer).Error)
			for _, p := range products {
				require.NoError(t, db.DB.Create(&models.ProductAnswer{AnswerID: answer.ID, ProductID: p.ID}).Error)
			}
		}
	}
	return category
}

func TestCategoryCRUD(t *testing.T) {
	app := setupTestApp(t)
	session := seedAdmin(t, app)

	var created CategoryView
	resp := doJSON(t, app, http.MethodPost, "/api/categories",
		map[string]string{"name": "Budget", "description": "price questions"}, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &created)
	require.NotZero(t, created.ID)

	resp = doJSON(t, app, http.MethodPost, "/api/categories", map[string]string{"description": "nameless"}, session)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/categories/%d", created.ID),
		map[string]string{"name": "Budget range"}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched CategoryView
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/categories/%d", created.ID), nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &fetched)
	require.Equal(t, "Budget range", fetched.Name)
}

func TestCategoryTreeListing(t *testing.T) {
	app := setupTestApp(t)
	session := seedAdmin(t, app)
	seedCategoryTree(t, "Rooms", 2, 3, nil)

	var out struct {
		Categories []CategoryView `json:"categories"`
	}
	resp := doJSON(t, app, http.MethodGet, "/api/categories", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &out)

	require.Len(t, out.Categories, 1)
	require.Len(t, out.Categories[0].Questions, 2)
	for _, q := range out.Categories[0].Questions {
		require.Len(t, q.Answers, 3)
	}
}

// Deleting a category with N questions, M answers each, and K links per
// answer must remove exactly N*M*K links, N*M answers, and N questions,
// then the category itself, and must not touch any sibling category.
func TestCategoryCascadeDelete(t *testing.T) {
	app := setupTestApp(t)
	session := seedAdmin(t, app)

	products := make([]models.Product, 0, 2)
	for _, name := range []string{"LS 990", "A 550"} {
		p := models.Product{Name: name}
		require.NoError(t, db.DB.Create(&p).Error)
		products = append(products, p)
	}

	doomed := seedCategoryTree(t, "Doomed", 2, 2, products)   // 2x2 answers, 2 links each
	sibling := seedCategoryTree(t, "Sibling", 1, 1, products) // must survive

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", doomed.ID), nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool `json:"success"`
	}
	decodeJSON(t, resp, &out)
	require.True(t, out.Success)

	var categories, questions, answers, links int64
	require.NoError(t, db.DB.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.DB.Model(&models.Question{}).Count(&questions).Error)
	require.NoError(t, db.DB.Model(&models.Answer{}).Count(&answers).Error)
	require.NoError(t, db.DB.Model(&models.ProductAnswer{}).Count(&links).Error)

	// Only the sibling tree remains: 1 category, 1 question, 1 answer, 2 links.
	require.EqualValues(t, 1, categories)
	require.EqualValues(t, 1, questions)
	require.EqualValues(t, 1, answers)
	require.EqualValues(t, 2, links)

	var remaining models.Category
	require.NoError(t, db.DB.First(&remaining, sibling.ID).Error)

	// Products referenced by the deleted links are untouched.
	var productCount int64
	require.NoError(t, db.DB.Model(&models.Product{}).Count(&productCount).Error)
	require.EqualValues(t, 2, productCount)
}

func TestCategoryDeleteNotFound(t *testing.T) {
	app := setupTestApp(t)
	session := seedAdmin(t, app)

	resp := doJSON(t, app, http.MethodDelete, "/api/categories/12345", nil, session)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
