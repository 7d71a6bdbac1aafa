package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleArtisan  = "artisan"
	RoleCustomer = "customer"
)

const (
	ProductPending     = "pending"
	ProductApproved    = "approved"
	ProductDisapproved = "disapproved"
)

const (
	WorkshopRequested = "requested"
	WorkshopAccepted  = "accepted"
)

const (
	TicketOpen     = "open"
	TicketResolved = "resolved"
)

const (
	OrderStatusNew    = "new"
	OrderStatusPlaced = "placed"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"            json:"id"`
	Username     string    `gorm:"unique;not null"       json:"username"`
	Name         string    `gorm:"not null"              json:"name"`
	Email        string    `gorm:"unique;not null"       json:"email"`
	MobileNo     string    `gorm:"not null"              json:"mobile_no"`
	Address      string    `json:"address"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null"              json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"primaryKey"       json:"id"`
	UserID    uuid.UUID `gorm:"index;not null"   json:"user_id"`
	TokenHash string    `gorm:"unique;not null"  json:"-"`
	ExpiresAt int64     `gorm:"not null"         json:"expires_at"`
	Revoked   bool      `gorm:"default:false"    json:"revoked"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"               json:"id"`
	ArtisanID   uuid.UUID `gorm:"index;not null"           json:"artisan_id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Category    string    `gorm:"not null"                 json:"category"`
	Material    string    `json:"material"`
	Image       string    `json:"image"`
	Description string    `gorm:"not null"                 json:"description"`
	OldPrice    float64   `gorm:"not null"                 json:"old_price"`
	NewPrice    float64   `gorm:"not null"                 json:"new_price"`
	Quantity    uint      `json:"quantity"`
	Status      string    `gorm:"not null;default:pending" json:"status"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Cart exists only while it holds at least one item. Per-user cart
// operations delete the record when the last line item goes away.
type Cart struct {
	ID     uuid.UUID  `gorm:"primaryKey"           json:"id"`
	UserID uuid.UUID  `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                            json:"id"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"            json:"quantity"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID        uuid.UUID   `gorm:"primaryKey"     json:"id"`
	UserID    uuid.UUID   `gorm:"index;not null" json:"user_id"`
	CreatedAt int64       `gorm:"not null"       json:"created_at"`
	Subtotal  float64     `gorm:"not null"       json:"subtotal"`
	Shipping  float64     `gorm:"not null"       json:"shipping"`
	Tax       float64     `gorm:"not null"       json:"tax"`
	Total     float64     `gorm:"not null"       json:"total"`
	Status    string      `gorm:"not null"       json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                 json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null"             json:"order_id"`
	ProductID uuid.UUID `gorm:"not null"                   json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0" json:"quantity"`
	UnitPrice float64   `gorm:"not null"                   json:"unit_price"`
	LineTotal float64   `gorm:"not null"                   json:"line_total"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type Workshop struct {
	ID        uuid.UUID  `gorm:"primaryKey"     json:"id"`
	UserID    uuid.UUID  `gorm:"index;not null" json:"user_id"`
	ArtisanID *uuid.UUID `gorm:"index"          json:"artisan_id"`
	Title     string     `gorm:"not null"       json:"title"`
	Desc      string     `gorm:"not null"       json:"description"`
	Date      string     `gorm:"not null"       json:"date"`
	Time      string     `gorm:"not null"       json:"time"`
	Status    string     `gorm:"not null;default:requested" json:"status"`
}

func (w *Workshop) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type CustomRequest struct {
	ID          uuid.UUID  `gorm:"primaryKey"     json:"id"`
	UserID      uuid.UUID  `gorm:"index;not null" json:"user_id"`
	ArtisanID   *uuid.UUID `gorm:"index"          json:"artisan_id"`
	Title       string     `gorm:"not null"       json:"title"`
	Type        string     `gorm:"not null"       json:"type"`
	Image       string     `json:"image"`
	Description string     `gorm:"not null"       json:"description"`
	Budget      float64    `gorm:"not null"       json:"budget"`
	RequiredBy  string     `gorm:"not null"       json:"required_by"`
	IsAccepted  bool       `gorm:"default:false"  json:"is_accepted"`
}

func (r *CustomRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type SupportTicket struct {
	ID          uuid.UUID `gorm:"primaryKey"            json:"id"`
	UserID      uuid.UUID `gorm:"index;not null"        json:"user_id"`
	Subject     string    `gorm:"not null"              json:"subject"`
	Category    string    `gorm:"not null"              json:"category"`
	Description string    `gorm:"not null"              json:"description"`
	Status      string    `gorm:"not null;default:open" json:"status"`
	CreatedAt   int64     `json:"created_at"`
}

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
