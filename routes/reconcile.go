package routes

import (
	"strings"

	"jungadmin/models"
)

// AnswerInput is one answer row as submitted by the question editor. ID is
// the persisted answer id for rows that already exist, zero for new rows;
// rows are diffed by this stable identity rather than by text, so renaming
// an answer to match another one never merges the two.
type AnswerInput struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	ProductIDs []uint `json:"product_ids"`
}

// LinkKey identifies one answer/product association.
type LinkKey struct {
	AnswerID  uint `json:"answer_id"`
	ProductID uint `json:"product_id"`
}

// answerChange is a planned operation for a single form row. ID is filled
// for kept rows up front and for new rows once they have been inserted.
type answerChange struct {
	ID         uint
	Text       string
	ProductIDs []uint
	IsNew      bool
}

// planAnswers compares the persisted answers of a question with the rows
// currently in the form. Kept rows (matching persisted id) are updated in
// place, rows without a persisted id become inserts, and persisted answers
// absent from the form are returned for deletion. Blank rows are dropped.
func planAnswers(existing []models.Answer, form []AnswerInput) (rows []answerChange, deleteIDs []uint) {
	byID := make(map[uint]bool, len(existing))
	for _, a := range existing {
		byID[a.ID] = true
	}

	kept := make(map[uint]bool, len(form))
	for _, in := range form {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			continue
		}
		if in.ID != 0 && byID[in.ID] {
			kept[in.ID] = true
			rows = append(rows, answerChange{ID: in.ID, Text: text, ProductIDs: in.ProductIDs})
		} else {
			rows = append(rows, answerChange{Text: text, ProductIDs: in.ProductIDs, IsNew: true})
		}
	}

	for _, a := range existing {
		if !kept[a.ID] {
			deleteIDs = append(deleteIDs, a.ID)
		}
	}
	return rows, deleteIDs
}

// planNewLinks returns the link rows to insert: every (answer, product)
// pair desired by the form that is not already persisted. Rows must carry
// their final ids, so this runs after the answer changes have been applied.
func planNewLinks(existing []models.ProductAnswer, rows []answerChange) []models.ProductAnswer {
	persisted := make(map[LinkKey]bool, len(existing))
	for _, link := range existing {
		persisted[LinkKey{AnswerID: link.AnswerID, ProductID: link.ProductID}] = true
	}

	var inserts []models.ProductAnswer
	for _, row := range rows {
		for _, productID := range row.ProductIDs {
			if productID == 0 || row.ID == 0 {
				continue
			}
			key := LinkKey{AnswerID: row.ID, ProductID: productID}
			if !persisted[key] {
				persisted[key] = true // also guards against duplicates within the form
				inserts = append(inserts, models.ProductAnswer{AnswerID: row.ID, ProductID: productID})
			}
		}
	}
	return inserts
}
