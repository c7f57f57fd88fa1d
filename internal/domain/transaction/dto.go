package transaction

type CreateRequest struct {
	Username string   `json:"username" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Amount   *float64 `json:"amount" binding:"required"`
}

type DeleteRequest struct {
	ID string `json:"_id" binding:"required"`
}

type DeleteManyRequest struct {
	IDs []string `json:"_ids"`
}
