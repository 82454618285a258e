package model

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Builder represents a job configured on a build server
type Builder struct {
	Name        string `gorm:"column:name;size:256;primaryKey" json:"name"`
	DisplayName string `gorm:"column:display_name;size:128" json:"display_name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Removed     bool   `gorm:"column:removed;not null;default:false" json:"removed"`
	// ServerID references build_servers.id. The column keeps its historical
	// name, builder_id.
	ServerID int64 `gorm:"column:builder_id;not null;index" json:"server_id"`
}

func (Builder) TableName() string {
	return "builders"
}

// NewBuilder creates a builder; an inactive builder starts out removed.
func NewBuilder(name, displayName, description string, active bool) *Builder {
	return &Builder{
		Name:        name,
		DisplayName: displayName,
		Description: description,
		Removed:     !active,
	}
}

// Active reports whether the builder still exists on its server
func (b *Builder) Active() bool {
	return !b.Removed
}

// DescriptionHTML renders the Markdown description.
func (b *Builder) DescriptionHTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(b.Description), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
