package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// Common request/response structures

// FlashcardItemRequest is one flashcard to create. GenerationID must be set
// for ai items and absent for manual ones.
type FlashcardItemRequest struct {
	Front          string `json:"front"           validate:"required,max=200"`
	Back           string `json:"back"            validate:"required,max=500"`
	GenerationType string `json:"generation_type" validate:"required,oneof=manual ai"`
	GenerationID   *int64 `json:"generation_id"   validate:"omitempty,gt=0"`
}

// toItem converts the request into a domain item, enforcing provenance.
func (r FlashcardItemRequest) toItem() (domain.FlashcardItem, error) {
	return domain.ParseItem(r.Front, r.Back, r.GenerationType, r.GenerationID)
}

// CreateBatchRequest defines the payload for batch flashcard creation.
type CreateBatchRequest struct {
	Flashcards []FlashcardItemRequest `json:"flashcards" validate:"required,min=1,dive"`
}

// UpdateFlashcardRequest defines the payload for editing flashcard content.
type UpdateFlashcardRequest struct {
	Front string `json:"front" validate:"required,max=200"`
	Back  string `json:"back"  validate:"required,max=500"`
}

// SubmitReviewRequest defines the payload for recording a review.
// Quality is a pointer so that 0 passes the required check.
type SubmitReviewRequest struct {
	Quality *int `json:"quality" validate:"required,gte=0,lte=5"`
}

// FlashcardResponse represents the response data for a flashcard
type FlashcardResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Front          string    `json:"front"`
	Back           string    `json:"back"`
	GenerationType string    `json:"generation_type"`
	GenerationID   *int64    `json:"generation_id"`
	Interval       int       `json:"interval"`
	Repetition     int       `json:"repetition"`
	EaseFactor     float64   `json:"ease_factor"`
	DueDate        time.Time `json:"due_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReconciliationWarningResponse reports a generation whose accepted count
// could not be updated.
type ReconciliationWarningResponse struct {
	GenerationID int64  `json:"generation_id"`
	Count        int    `json:"count"`
	Message      string `json:"message"`
}

// BatchResponse defines the successful response for flashcard creation.
type BatchResponse struct {
	Flashcards []FlashcardResponse             `json:"flashcards"`
	Warnings   []ReconciliationWarningResponse `json:"warnings,omitempty"`
}

// FlashcardListResponse is one page of flashcards.
type FlashcardListResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

// DueListResponse lists the flashcards due for review.
type DueListResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Before     time.Time           `json:"before"`
}

// GenerationResponse represents the response data for a generation
type GenerationResponse struct {
	ID             int64     `json:"id"`
	GeneratedCount int       `json:"generated_count"`
	AcceptedCount  *int      `json:"accepted_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:             card.ID,
		UserID:         card.UserID,
		Front:          card.Front,
		Back:           card.Back,
		GenerationType: string(card.GenerationType),
		GenerationID:   card.GenerationID,
		Interval:       card.Interval,
		Repetition:     card.Repetition,
		EaseFactor:     card.EaseFactor,
		DueDate:        card.DueDate,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func flashcardsToResponse(cards []*domain.Flashcard) []FlashcardResponse {
	out := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, flashcardToResponse(card))
	}
	return out
}

func batchToResponse(result *service.BatchResult) BatchResponse {
	resp := BatchResponse{Flashcards: flashcardsToResponse(result.Flashcards)}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, ReconciliationWarningResponse{
			GenerationID: w.GenerationID,
			Count:        w.Count,
			Message:      "accepted count not updated",
		})
	}
	return resp
}

func generationToResponse(g *domain.Generation) GenerationResponse {
	return GenerationResponse{
		ID:             g.ID,
		GeneratedCount: g.GeneratedCount,
		AcceptedCount:  g.AcceptedCount,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}
