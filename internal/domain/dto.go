package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---- Rooms ----

// CreateRoomRequest is the payload for creating a room
type CreateRoomRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Floor      string `json:"floor,omitempty" validate:"max=50"`
	Department string `json:"department,omitempty" validate:"max=100"`
}

// UpdateRoomRequest is the payload for updating a room
type UpdateRoomRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,max=200"`
	Floor      string `json:"floor,omitempty" validate:"max=50"`
	Department string `json:"department,omitempty" validate:"max=100"`
}

// ---- Items ----

// CreateItemRequest is the payload for creating an item
type CreateItemRequest struct {
	Name      string           `json:"name" validate:"required,max=200"`
	Category  string           `json:"category,omitempty" validate:"max=100"`
	Unit      string           `json:"unit,omitempty" validate:"max=50"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
}

// UpdateItemRequest is the payload for updating an item
type UpdateItemRequest struct {
	Name      string           `json:"name,omitempty" validate:"omitempty,max=200"`
	Category  string           `json:"category,omitempty" validate:"max=100"`
	Unit      string           `json:"unit,omitempty" validate:"max=50"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
}

// ---- Audits ----

// CreateAuditRequest is the payload for opening a new monthly audit
type CreateAuditRequest struct {
	Month          int         `json:"month" validate:"required,gte=1,lte=12"`
	Year           int         `json:"year" validate:"required,gte=2000,lte=2100"`
	Notes          string      `json:"notes,omitempty"`
	ParticipantIDs []uuid.UUID `json:"participantIds,omitempty"`
}

// UpdateAuditRequest is the payload for updating an audit. Empty strings
// are treated as absent fields, not clearing instructions.
type UpdateAuditRequest struct {
	Status         string      `json:"status,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	ParticipantIDs []uuid.UUID `json:"participantIds,omitempty"`
}

// AddItemDetailRequest adds a room-item row to an in-progress audit
type AddItemDetailRequest struct {
	RoomID           uuid.UUID `json:"roomId" validate:"required"`
	ItemID           uuid.UUID `json:"itemId" validate:"required"`
	ActiveQuantity   int       `json:"activeQuantity" validate:"gte=0"`
	BrokenQuantity   int       `json:"brokenQuantity" validate:"gte=0"`
	InactiveQuantity int       `json:"inactiveQuantity" validate:"gte=0"`
}

// UpdateItemDetailRequest adjusts quantity counters on an item detail.
// Nil fields are left unchanged.
type UpdateItemDetailRequest struct {
	ActiveQuantity   *int `json:"activeQuantity,omitempty"`
	BrokenQuantity   *int `json:"brokenQuantity,omitempty"`
	InactiveQuantity *int `json:"inactiveQuantity,omitempty"`
}

// RoomDetails groups an audit's item details under one room
type RoomDetails struct {
	Room    RoomSummary  `json:"room"`
	Details []ItemDetail `json:"details"`
}

// RoomSummary is the trimmed room payload embedded in grouped views
type RoomSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Floor      string    `json:"floor,omitempty"`
	Department string    `json:"department,omitempty"`
}

// AuditDTO is the audit payload with nested relations
type AuditDTO struct {
	ID            uuid.UUID         `json:"id"`
	Month         int               `json:"month"`
	Year          int               `json:"year"`
	Status        AuditStatus       `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	Participants  []User            `json:"participants"`
	DetailsByRoom []RoomDetails     `json:"detailsByRoom"`
	History       []ActivityHistory `json:"history,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// AuditListEntry is the audit payload for list views
type AuditListEntry struct {
	ID               uuid.UUID   `json:"id"`
	Month            int         `json:"month"`
	Year             int         `json:"year"`
	Status           AuditStatus `json:"status"`
	Notes            string      `json:"notes,omitempty"`
	ParticipantCount int         `json:"participantCount"`
	ItemDetailCount  int         `json:"itemDetailCount"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// ItemSummaryRow aggregates an audit's item details by item across rooms
type ItemSummaryRow struct {
	ItemID           uuid.UUID       `json:"itemId"`
	ItemName         string          `json:"itemName"`
	Unit             string          `json:"unit,omitempty"`
	ActiveQuantity   int             `json:"activeQuantity"`
	DamageQuantity   int             `json:"damageQuantity"`
	InactiveQuantity int             `json:"inactiveQuantity"`
	TotalQuantity    int             `json:"totalQuantity"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
}

// ---- Asset purchases ----

// CreateAssetPurchaseRequest records a purchasing event
type CreateAssetPurchaseRequest struct {
	RoomID       uuid.UUID        `json:"roomId" validate:"required"`
	ItemID       uuid.UUID        `json:"itemId" validate:"required"`
	Quantity     int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal  `json:"unitPrice"`
	PurchaseDate *time.Time       `json:"purchaseDate,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// UpdateAssetPurchaseRequest edits a purchase record. The earlier fold
// into the audit's item details is never recalculated.
type UpdateAssetPurchaseRequest struct {
	RoomID       *uuid.UUID       `json:"roomId,omitempty"`
	ItemID       *uuid.UUID       `json:"itemId,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	PurchaseDate *time.Time       `json:"purchaseDate,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// PurchaseFilters narrows purchase listings and summaries
type PurchaseFilters struct {
	RoomID    *uuid.UUID
	ItemID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// PurchaseSummaryLine is one item's contribution within a room grouping
// (or one room's contribution within an item grouping)
type PurchaseSummaryLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// PurchaseRoomSummary aggregates purchases for one room
type PurchaseRoomSummary struct {
	RoomID     uuid.UUID             `json:"roomId"`
	RoomName   string                `json:"roomName"`
	TotalItems int                   `json:"totalItems"`
	TotalCost  decimal.Decimal       `json:"totalCost"`
	Items      []PurchaseSummaryLine `json:"items"`
}

// PurchaseItemSummary aggregates purchases for one item
type PurchaseItemSummary struct {
	ItemID        uuid.UUID             `json:"itemId"`
	ItemName      string                `json:"itemName"`
	TotalQuantity int                   `json:"totalQuantity"`
	TotalCost     decimal.Decimal       `json:"totalCost"`
	Rooms         []PurchaseSummaryLine `json:"rooms"`
}

// PurchaseSummary is the full purchase aggregation payload
type PurchaseSummary struct {
	TotalPurchases int                   `json:"totalPurchases"`
	TotalCost      decimal.Decimal       `json:"totalCost"`
	ByRoom         []PurchaseRoomSummary `json:"byRoom"`
	ByItem         []PurchaseItemSummary `json:"byItem"`
}

// ---- Activity history ----

// ActivityFilters narrows activity history listings
type ActivityFilters struct {
	EntityType EntityType
	EntityID   *uuid.UUID
	UserID     *uuid.UUID
	Limit      int
}

// EntityTypeCount is one entity type's share of the history log
type EntityTypeCount struct {
	EntityType EntityType `json:"entityType"`
	Count      int64      `json:"count"`
}

// ActivityStats summarizes history volume for dashboards
type ActivityStats struct {
	TotalActivities int64             `json:"totalActivities"`
	TodayActivities int64             `json:"todayActivities"`
	WeekActivities  int64             `json:"weekActivities"`
	ByEntityType    []EntityTypeCount `json:"byEntityType"`
}

// ---- Users, roles, permissions ----

// CreateUserRequest registers a new user
type CreateUserRequest struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Mobile   string     `json:"mobile" validate:"required,max=20"`
	Password string     `json:"password" validate:"required,min=6"`
	RoleID   *uuid.UUID `json:"roleId,omitempty"`
}

// UpdateUserRequest edits a user
type UpdateUserRequest struct {
	Name     string     `json:"name,omitempty" validate:"omitempty,max=200"`
	Password string     `json:"password,omitempty" validate:"omitempty,min=6"`
	RoleID   *uuid.UUID `json:"roleId,omitempty"`
	IsActive *bool      `json:"isActive,omitempty"`
}

// LoginRequest authenticates by mobile and password
type LoginRequest struct {
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the user payload
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateRoleRequest creates a named role
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

// UpdateRoleRequest edits a role
type UpdateRoleRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description string `json:"description,omitempty"`
}

// CreatePermissionRequest creates a resource/action permission
type CreatePermissionRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Resource string `json:"resource" validate:"required,max=100"`
	Action   string `json:"action" validate:"required,max=50"`
}

// ---- Shared ----

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
