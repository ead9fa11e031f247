package products

type CreateProductRequest struct {
	Code     string  `json:"code" validate:"required,max=50"`
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"max=100"`
	Unit     string  `json:"unit" validate:"max=20"`
	Stock    float64 `json:"stock"`
}

type UpdateProductRequest struct {
	Code     *string  `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Unit     *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	Stock    *float64 `json:"stock,omitempty"`
}

type ListProductsRequest struct {
	Search string `json:"search"`
	Limit  int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset int    `json:"offset" validate:"gte=0"`
}
