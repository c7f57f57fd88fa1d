package category

type CreateRequest struct {
	Type  string `json:"type" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type UpdateRequest struct {
	Type  string `json:"type" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type DeleteRequest struct {
	Types []string `json:"types"`
}

// EditResponse reports how many transactions were moved to another type.
type EditResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
