package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobile_no"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Material    string  `json:"material"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	OldPrice    float64 `json:"old_price"`
	NewPrice    float64 `json:"new_price"`
	Quantity    uint    `json:"quantity"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Material    *string  `json:"material"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	OldPrice    *float64 `json:"old_price"`
	NewPrice    *float64 `json:"new_price"`
	Quantity    *uint    `json:"quantity"`
}

type ApproveProductRequest struct {
	Approve bool `json:"approve"`
}

type ChangeAmountRequest struct {
	Amount *int `json:"amount"`
}

type BookWorkshopRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type CreateCustomRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	RequiredBy  string  `json:"required_by"`
}

type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}
