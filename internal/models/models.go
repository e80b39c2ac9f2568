package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for account models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// CatalogModel is embedded by public content. Integer ids are what wishlists
// reference.
type CatalogModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Setting is the singleton holding deployment-wide secrets
type Setting struct {
	BaseModel
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"` // Auto-generated on first setup (64 hex chars)
}

// User is a staff account. Role is "admin", "staff" or empty.
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Role         string    `json:"role" gorm:"type:varchar(16);not null;default:''"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Destination is a place tours run in
type Destination struct {
	CatalogModel
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"unique;not null"`
	Country     string `json:"country"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url"`
	Featured    bool   `json:"featured" gorm:"not null;default:false"`

	// Relationships
	Tours []Tour `json:"tours,omitempty" gorm:"foreignKey:DestinationID"`
}

// Tour is a bookable trip offered at a destination
type Tour struct {
	CatalogModel
	DestinationID uint    `json:"destination_id" gorm:"not null;index"`
	Title         string  `json:"title" gorm:"not null"`
	Slug          string  `json:"slug" gorm:"unique;not null"`
	Summary       string  `json:"summary" gorm:"type:text"`
	ImageURL      string  `json:"image_url"`
	Price         float64 `json:"price" gorm:"not null;default:0"`
	DurationDays  int     `json:"duration_days" gorm:"not null;default:1"`
	Rating        float64 `json:"rating" gorm:"not null;default:0"`

	// Relationships
	Destination *Destination `json:"destination,omitempty" gorm:"foreignKey:DestinationID;constraint:OnDelete:CASCADE"`
}

// GalleryImage is a photo shown on the gallery page
type GalleryImage struct {
	CatalogModel
	Title       string `json:"title"`
	ImageURL    string `json:"image_url" gorm:"not null"`
	UploadedBy  string `json:"uploaded_by"`
	Destination string `json:"destination"`
}

// Testimonial is a visitor review. Only approved testimonials are public.
type Testimonial struct {
	CatalogModel
	Author   string `json:"author" gorm:"not null"`
	Location string `json:"location"`
	Quote    string `json:"quote" gorm:"type:text;not null"`
	Rating   int    `json:"rating" gorm:"not null;default:5"`
	Approved bool   `json:"approved" gorm:"not null;default:false;index"`
}

// TeamMember is shown on the team page
type TeamMember struct {
	CatalogModel
	Name     string `json:"name" gorm:"not null"`
	Position string `json:"position"`
	Bio      string `json:"bio" gorm:"type:text"`
	ImageURL string `json:"image_url"`
	Sort     int    `json:"sort" gorm:"not null;default:0"`
}

// KVEntry backs the key-value store wishlists are persisted to
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name
func (KVEntry) TableName() string {
	return "kv_entries"
}

// DashboardSnapshot is a roll-up of content and account counts shown on the
// admin dashboard
type DashboardSnapshot struct {
	BaseModel
	Tours                int64 `json:"tours"`
	Destinations         int64 `json:"destinations"`
	GalleryImages        int64 `json:"gallery_images"`
	ApprovedTestimonials int64 `json:"approved_testimonials"`
	PendingTestimonials  int64 `json:"pending_testimonials"`
	StaffUsers           int64 `json:"staff_users"`
	AdminUsers           int64 `json:"admin_users"`
	Wishlists            int64 `json:"wishlists"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&User{}, &Setting{}, &Destination{}, &Tour{}, &GalleryImage{},
		&Testimonial{}, &TeamMember{}, &KVEntry{}, &DashboardSnapshot{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by ID
func FindByID[T any, ID string | uint](db *gorm.DB, id ID, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any, ID string | uint](db *gorm.DB, id ID, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
