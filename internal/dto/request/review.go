package request

type CreateReviewRequest struct {
	MovieID string `json:"movie_id" validate:"required,uuid4"`
	// Rating bounds come from config (REVIEW_MAX_RATING), not from a
	// tag, so the service validates them.
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"required,max=500"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}
