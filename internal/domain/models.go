package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the database does not (sqlite in tests)
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Room represents a physical location holding inventory
type Room struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null;index" json:"name"`
	Floor      string `gorm:"type:varchar(50)" json:"floor,omitempty"`
	Department string `gorm:"type:varchar(100)" json:"department,omitempty"`
}

// Item represents an asset type tracked across rooms and audits.
// UnitPrice is the master price; it is overwritten by the most recent
// purchase price and seeds new item details.
type Item struct {
	BaseModel
	Name      string           `gorm:"type:varchar(200);not null;index" json:"name"`
	Category  string           `gorm:"type:varchar(100)" json:"category,omitempty"`
	Unit      string           `gorm:"type:varchar(50)" json:"unit,omitempty"`
	UnitPrice *decimal.Decimal `gorm:"type:decimal(15,2);column:unit_price" json:"unitPrice,omitempty"`
}

// AuditStatus represents the lifecycle state of an audit
type AuditStatus string

const (
	AuditStatusInProgress AuditStatus = "in_progress"
	AuditStatusCompleted  AuditStatus = "completed"
	AuditStatusCanceled   AuditStatus = "canceled"
)

// IsValid checks if the AuditStatus is a valid enum value
func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusInProgress, AuditStatusCompleted, AuditStatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s AuditStatus) IsTerminal() bool {
	return s == AuditStatusCompleted || s == AuditStatusCanceled
}

// Audit represents a monthly stocktake. At most one audit exists per
// calendar month; item details are mutable only while it is in progress.
type Audit struct {
	BaseModel
	Month        int          `gorm:"not null;uniqueIndex:idx_audits_month_year" json:"month"`
	Year         int          `gorm:"not null;uniqueIndex:idx_audits_month_year" json:"year"`
	Status       AuditStatus  `gorm:"type:varchar(50);not null;default:'in_progress';index" json:"status"`
	Notes        string       `gorm:"type:text" json:"notes,omitempty"`
	Participants []User       `gorm:"many2many:audit_participants" json:"participants,omitempty"`
	ItemDetails  []ItemDetail `gorm:"foreignKey:AuditID;constraint:OnDelete:CASCADE" json:"itemDetails,omitempty"`
}

// ItemDetail is the per-audit snapshot of a room-item pair. The composite
// key (room, item, audit) is unique; TotalPrice always equals
// UnitPrice * (active + broken + inactive).
type ItemDetail struct {
	BaseModel
	RoomID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_details_room_item_audit;column:room_id" json:"roomId"`
	Room             *Room           `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_details_room_item_audit;column:item_id" json:"itemId"`
	Item             *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	AuditID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_details_room_item_audit;index;column:audit_id" json:"auditId"`
	Audit            *Audit          `gorm:"foreignKey:AuditID" json:"audit,omitempty"`
	ActiveQuantity   int             `gorm:"not null;default:0;column:active_quantity" json:"activeQuantity"`
	BrokenQuantity   int             `gorm:"not null;default:0;column:broken_quantity" json:"brokenQuantity"`
	InactiveQuantity int             `gorm:"not null;default:0;column:inactive_quantity" json:"inactiveQuantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:unit_price" json:"unitPrice"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:total_price" json:"totalPrice"`
}

// TotalQuantity returns the sum of all quantity counters
func (d *ItemDetail) TotalQuantity() int {
	return d.ActiveQuantity + d.BrokenQuantity + d.InactiveQuantity
}

// AssetPurchase is an immutable record of a purchasing event. Creating one
// folds the purchased quantity into the latest audit's item details; later
// edits or deletes never reverse that fold.
type AssetPurchase struct {
	BaseModel
	RoomID       uuid.UUID       `gorm:"type:uuid;not null;index;column:room_id" json:"roomId"`
	Room         *Room           `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index;column:item_id" json:"itemId"`
	Item         *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_price" json:"unitPrice"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:total_cost" json:"totalCost"`
	PurchaseDate time.Time       `gorm:"not null;index;column:purchase_date" json:"purchaseDate"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`
	AddedByID    uuid.UUID       `gorm:"type:uuid;not null;column:added_by" json:"addedById"`
	AddedBy      *User           `gorm:"foreignKey:AddedByID" json:"addedBy,omitempty"`
}

// EntityType identifies the kind of entity a history entry refers to
type EntityType string

const (
	EntityTypeAudit         EntityType = "Audit"
	EntityTypeItemDetail    EntityType = "ItemDetails"
	EntityTypeItem          EntityType = "Item"
	EntityTypeRoom          EntityType = "Room"
	EntityTypeUser          EntityType = "User"
	EntityTypeAssetPurchase EntityType = "AssetPurchase"
)

// IsValid checks if the EntityType is a known entity kind
func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeAudit, EntityTypeItemDetail, EntityTypeItem,
		EntityTypeRoom, EntityTypeUser, EntityTypeAssetPurchase:
		return true
	}
	return false
}

// ActionType represents the kind of mutation recorded in history
type ActionType string

const (
	ActionTypeCreate ActionType = "CREATE"
	ActionTypeUpdate ActionType = "UPDATE"
	ActionTypeDelete ActionType = "DELETE"
)

// ActivityHistory is an append-only audit-trail entry. Before/After hold
// JSON snapshots; ChangeSummary holds rendered field diffs; Metadata holds
// correlation keys such as audit_id/room_id/item_id.
type ActivityHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID        *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"userId,omitempty"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EntityType    EntityType `gorm:"type:varchar(50);not null;index:idx_activity_history_entity;column:entity_type" json:"entityType"`
	EntityID      *uuid.UUID `gorm:"type:uuid;index:idx_activity_history_entity;column:entity_id" json:"entityId,omitempty"`
	EntityName    string     `gorm:"type:varchar(200);column:entity_name" json:"entityName,omitempty"`
	ActionType    ActionType `gorm:"type:varchar(20);not null;column:action_type" json:"actionType"`
	Before        string     `gorm:"type:jsonb" json:"before,omitempty"`
	After         string     `gorm:"type:jsonb" json:"after,omitempty"`
	ChangeSummary string     `gorm:"type:jsonb;column:change_summary" json:"changeSummary,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	Metadata      string     `gorm:"type:jsonb" json:"metadata,omitempty"`
	OccurredAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at" json:"occurredAt"`
}

// TableName keeps the table name the dashboard queries expect
func (ActivityHistory) TableName() string {
	return "recent_activity_history"
}

// BeforeCreate assigns a UUID when the database does not
func (h *ActivityHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// LegacyRole is the fixed enumerated role used before roles moved to their
// own table. Users without a RoleID fall back to this tag.
type LegacyRole string

const (
	LegacyRoleAdmin   LegacyRole = "admin"
	LegacyRoleAuditor LegacyRole = "auditor"
	LegacyRoleViewer  LegacyRole = "viewer"
)

// User represents an operator of the system
type User struct {
	BaseModel
	Name         string     `gorm:"type:varchar(200);not null" json:"name"`
	Mobile       string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"mobile"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	LegacyRole   LegacyRole `gorm:"type:varchar(50);column:legacy_role" json:"legacyRole,omitempty"`
	RoleID       *uuid.UUID `gorm:"type:uuid;column:role_id" json:"roleId,omitempty"`
	Role         *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// Role is a named permission set assigned to users
type Role struct {
	BaseModel
	Name        string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Permission grants an action on a resource, e.g. (audits, update)
type Permission struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Resource string `gorm:"type:varchar(100);not null;uniqueIndex:idx_permissions_resource_action" json:"resource"`
	Action   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_resource_action" json:"action"`
}
