package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ItemKind discriminates the two countable inventory populations
type ItemKind string

const (
	KindTool     ItemKind = "tool"
	KindChemical ItemKind = "chemical"
)

// Valid reports whether the kind is a known inventory population
func (k ItemKind) Valid() bool {
	return k == KindTool || k == KindChemical
}

// Ref is a tagged reference to one inventory record. All cycle count logic
// works through Ref instead of branching on kind strings.
type Ref struct {
	Kind ItemKind `json:"kind"`
	ID   uint     `json:"id"`
}

// Record fields addressable through Provider.SetField
const (
	FieldQuantity  = "quantity"
	FieldLocation  = "location"
	FieldCondition = "condition"
	FieldStatus    = "status"
)

// Statuses that require a status reason when set through an adjustment
const (
	StatusAvailable   = "available"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
	StatusExpired     = "expired"
)

// Tool represents the tool master record
type Tool struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	ToolNumber   string         `json:"tool_number" gorm:"uniqueIndex;not null"`
	SerialNumber string         `json:"serial_number"`
	Description  string         `json:"description"`
	Location     string         `json:"location" gorm:"index"`
	Category     string         `json:"category" gorm:"index"`
	Condition    string         `json:"condition"`
	Status       string         `json:"status" gorm:"default:'available'"`
	StatusReason string         `json:"status_reason"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Tool) TableName() string {
	return "tools"
}

// Chemical represents the chemical master record
type Chemical struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	PartNumber   string         `json:"part_number" gorm:"index;not null"`
	LotNumber    string         `json:"lot_number"`
	Description  string         `json:"description"`
	Quantity     int            `json:"quantity" gorm:"not null;default:0"`
	Unit         string         `json:"unit"`
	Location     string         `json:"location" gorm:"index"`
	Category     string         `json:"category" gorm:"index"`
	Status       string         `json:"status" gorm:"default:'available'"`
	StatusReason string         `json:"status_reason"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Chemical) TableName() string {
	return "chemicals"
}

// ToolCheckout is one historical checkout of a tool. Checkout frequency is the
// usage proxy for ABC ranking of tools.
type ToolCheckout struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ToolID       uint       `json:"tool_id" gorm:"not null;index"`
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	CheckedOutAt time.Time  `json:"checked_out_at"`
	ReturnedAt   *time.Time `json:"returned_at"`
}

// TableName specifies the table name
func (ToolCheckout) TableName() string {
	return "tool_checkouts"
}

// Record is the uniform read view over both kinds. Tools carry no numeric
// quantity and always read as quantity 1.
type Record struct {
	Ref         Ref    `json:"ref"`
	Number      string `json:"number"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Status      string `json:"status"`
}

// ListFilter narrows the countable population
type ListFilter struct {
	Location string
	Category string
}

// Provider is the capability interface over the inventory master records.
// Cycle counting reads populations and snapshots through it, and mutates
// records only through SetField.
type Provider interface {
	// Get returns the live record for ref
	Get(ctx context.Context, ref Ref) (*Record, error)

	// SetField writes value into one field of the live record and returns the
	// value that field held immediately before the write. Implementations must
	// guard the read-modify-write so the returned old value is accurate at
	// commit time. Setting quantity on a tool is a validation error. Setting
	// status to maintenance/retired/expired also stamps a status reason.
	SetField(ctx context.Context, ref Ref, field, value string) (oldValue string, err error)

	// List returns the filtered population for one kind
	List(ctx context.Context, kind ItemKind, filter ListFilter) ([]Record, error)

	// UsageScore returns the ABC value proxy: checkout frequency for tools,
	// on-hand quantity for chemicals. The two proxies are documented policy,
	// not a unified value metric.
	UsageScore(ctx context.Context, ref Ref) (float64, error)
}
