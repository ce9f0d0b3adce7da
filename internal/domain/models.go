// Package domain defines the persistence models for the spare-part catalog
// and service orders. These types are mapped with GORM and form the core
// data layer of the maintenance backend.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the lifecycle states of a service order.
// New orders are always created as StatusPending.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Category classifies spare parts. Names are unique; the description is
// optional. Deleting a category detaches its parts (category_id set to NULL)
// rather than deleting them.
type Category struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(100);not null;uniqueIndex:ux_categories_name"`
	Description *string   `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// SparePart is a catalog entry for a maintenance item.
//
// Fields:
//   - SKU: globally unique stock keeping unit, format
//     [CLASS]-[MATERIAL]-[SIZE]-[LENGTH] (see ValidateSKU).
//   - Price: non-negative fixed-point value with 2 decimal places.
//   - Stock: available quantity; never negative (enforced by the atomic
//     decrement in the repo layer plus a CHECK constraint).
//   - CategoryID: optional; nulled out when the category is deleted.
type SparePart struct {
	ID         uint            `json:"id"          gorm:"primaryKey"`
	Name       string          `json:"name"        gorm:"type:varchar(150);not null"`
	SKU        string          `json:"sku"         gorm:"column:sku;type:varchar(50);not null;uniqueIndex:ux_spare_parts_sku"`
	Price      decimal.Decimal `json:"price"       gorm:"type:numeric(10,2);not null"`
	Stock      int             `json:"stock"       gorm:"not null;default:0;check:stock >= 0"`
	CategoryID *uint           `json:"category_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Category is the optional owning category; SET NULL on delete keeps the
	// part when its category disappears.
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for SparePart.
func (SparePart) TableName() string { return "spare_parts" }

// ServiceOrder is a maintenance order composed of line items.
//
// RequestID is the caller-supplied idempotency key. The unique index makes
// the storage layer the arbiter of duplicate submissions: a second committer
// racing within the idempotency window fails the insert and re-reads the
// winner (see services.OrderService.Create).
type ServiceOrder struct {
	ID        uint            `json:"id"         gorm:"primaryKey"`
	RequestID int64           `json:"request_id" gorm:"not null;uniqueIndex:ux_service_orders_request_id"`
	Status    OrderStatus     `json:"status"     gorm:"type:varchar(20);not null;default:'pending'"`
	Total     decimal.Decimal `json:"total"      gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Items are exclusively owned by the order and cascade-deleted with it.
	Items []ServiceOrderItem `json:"items" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ServiceOrder.
func (ServiceOrder) TableName() string { return "service_orders" }

// ServiceOrderItem is one line of a service order. UnitPrice is a snapshot
// of the part's price at order time; later catalog price changes never alter
// historical order value.
type ServiceOrderItem struct {
	ID          uint            `json:"id"            gorm:"primaryKey"`
	OrderID     uint            `json:"order_id"      gorm:"not null;index"`
	SparePartID uint            `json:"spare_part_id" gorm:"not null"`
	Quantity    int             `json:"quantity"      gorm:"not null;check:quantity > 0"`
	UnitPrice   decimal.Decimal `json:"unit_price"    gorm:"type:numeric(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// SparePart is referenced, not owned: RESTRICT blocks deleting a part
	// that any historical order line still points at.
	SparePart SparePart `json:"spare_part" gorm:"foreignKey:SparePartID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for ServiceOrderItem.
func (ServiceOrderItem) TableName() string { return "service_order_items" }

// ServiceOrderImage records an uploaded progress photo for an order. The URL
// is a time-limited presigned link into object storage.
type ServiceOrderImage struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	OrderID   uint      `json:"order_id"   gorm:"not null;index"`
	FileName  string    `json:"file_name"  gorm:"type:varchar(255);not null"`
	ImageURL  string    `json:"image_url"  gorm:"type:varchar(2000);not null"`
	CreatedAt time.Time `json:"created_at"`

	// Order is the owning service order; images go with it.
	Order ServiceOrder `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ServiceOrderImage.
func (ServiceOrderImage) TableName() string { return "service_order_images" }
