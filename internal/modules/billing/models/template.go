package models

import (
	"time"

	"github.com/voicebill/voice-billing-be/internal/core/render"
)

// Template is an uploaded bill layout (pdf/jpg/jpeg/png)
type Template struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	FileName  string    `gorm:"type:text;not null" json:"file_name"`
	FileType  string    `gorm:"type:varchar(10);not null" json:"file_type"`
	FilePath  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Template) TableName() string {
	return "templates"
}

// Layout converts the record into the renderer's template reference.
// localPath is where the stored file can be read from.
func (t *Template) Layout(localPath string) *render.Template {
	return &render.Template{
		ID:       t.ID,
		Name:     t.Name,
		FileName: t.FileName,
		FileType: t.FileType,
		FilePath: localPath,
	}
}
