package dto

type AddItemInput struct {
	Handle    string `json:"handle" binding:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}
