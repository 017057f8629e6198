package model

import "gorm.io/gorm"

// VisitorCounter is the persisted value of one visitor counter.
type VisitorCounter struct {
	gorm.Model
	Name string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Hits int64  `gorm:"default:0;not null"`
}
