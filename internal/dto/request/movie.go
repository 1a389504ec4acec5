package request

type MovieRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Director    string `json:"director" validate:"required,min=1,max=200"`
	ReleaseYear int    `json:"release_year" validate:"required,gt=0"`
	Genre       string `json:"genre" validate:"required,min=1,max=50"`
}

// MovieUpdateRequest carries partial updates: a nil field is left
// unchanged, a provided field fully replaces the old value. A provided
// empty value is rejected, every descriptive field must stay non-empty.
type MovieUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Director    *string `json:"director,omitempty" validate:"omitempty,min=1,max=200"`
	ReleaseYear *int    `json:"release_year,omitempty" validate:"omitempty,gt=0"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,min=1,max=50"`
}
