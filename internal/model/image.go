package model

import (
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Image is attached to any registered model through (content_type, object_id).
type Image struct {
	BaseModel
	File        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"file" fieldcheck:"-"`
	Title       *string `gorm:"type:varchar(100)" json:"title"`
	IsPrimary   bool    `gorm:"not null;default:false" json:"is_primary"`
	ObjectID    uint    `gorm:"not null;index:idx_image_object,priority:2" json:"object_id"`
	ContentType string  `gorm:"type:varchar(50);not null;index:idx_image_object,priority:1" json:"content_type" fieldcheck:"-"`
}

func (Image) TableName() string { return "images" }

func (i *Image) BeforeSave(tx *gorm.DB) error {
	i.File = strings.TrimSpace(i.File)
	if i.File == "" {
		return ErrEmptyImageFile
	}
	c := i.File[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return ErrImageFileFormat
	}
	return nil
}

// Imageable is implemented by models that can own images.
type Imageable interface {
	TableName() string
	GetID() uint
}

var (
	registryMu   sync.RWMutex
	contentTypes = map[string]func() Imageable{}
)

// RegisterContentType makes a model resolvable as an image parent.
func RegisterContentType(newFn func() Imageable) {
	registryMu.Lock()
	defer registryMu.Unlock()
	contentTypes[newFn().TableName()] = newFn
}

// NewContentType returns an empty instance for the given table name.
func NewContentType(name string) (Imageable, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	newFn, ok := contentTypes[name]
	if !ok {
		return nil, false
	}
	return newFn(), true
}

// ContentTypes lists the registered table names.
func ContentTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(contentTypes))
	for name := range contentTypes {
		names = append(names, name)
	}
	return names
}

func init() {
	RegisterContentType(func() Imageable { return &Category{} })
	RegisterContentType(func() Imageable { return &Product{} })
}
