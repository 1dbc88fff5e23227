package model

import (
	"fmt"
	"strings"
)

// TagType identifies a ranking used to list stocks.
type TagType string

const (
	TagPopular TagType = "POPULAR"
	TagRising  TagType = "RISING"
	TagFalling TagType = "FALLING"
	TagVolume  TagType = "VOLUME"
	// TagUnknown parses successfully but is never served.
	TagUnknown TagType = "UNKNOWN"
)

// TagTypes lists the tags that can be queried.
var TagTypes = []TagType{TagPopular, TagRising, TagFalling, TagVolume}

// ParseTagType parses a tag name case-insensitively.
func ParseTagType(s string) (TagType, error) {
	switch t := TagType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TagPopular, TagRising, TagFalling, TagVolume, TagUnknown:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tag type %q", s)
	}
}

// Supported reports whether stocks can be listed by t.
func (t TagType) Supported() bool {
	switch t {
	case TagPopular, TagRising, TagFalling, TagVolume:
		return true
	}
	return false
}

func (t TagType) String() string {
	return string(t)
}

// Tag describes a ranking tag.
type Tag struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        TagType `gorm:"size:20;not null;uniqueIndex" json:"name"`
	Description string  `gorm:"size:255;not null" json:"description"`
}

func (Tag) TableName() string {
	return "tags"
}
