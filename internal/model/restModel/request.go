package restModel

type SignUpRequest struct {
	Firstname string `json:"firstname" binding:"required"`
	Lastname  string `json:"lastname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AddStockRequest struct {
	Symbol       string  `json:"symbol" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	AveragePrice float64 `json:"averagePrice" binding:"gte=0"`
}

type UpdateStockRequest struct {
	Quantity     *float64 `json:"quantity" binding:"omitempty,gte=0"`
	AveragePrice *float64 `json:"averagePrice" binding:"omitempty,gte=0"`
}

type SetFiltersRequest struct {
	SortBy   *string `json:"sortBy"`
	FilterBy *string `json:"filterBy"`
}
