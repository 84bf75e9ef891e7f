package postgres

import (
	"gorm.io/datatypes"
)

/*
 * 'Pack' is a pack skin shown on the home screen. Colors holds the
 * gradient color names the client renders the pack with.
 */
type Pack struct {
	ID          int            `gorm:"primaryKey;autoIncrement"`
	Name        string         `gorm:"size:100;not null;uniqueIndex"`
	Colors      datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	IsAvailable bool           `gorm:"default:true"`
}
