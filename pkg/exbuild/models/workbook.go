package models

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// WorkbookData represents a read workbook with per-sheet data.
type WorkbookData struct {
	// BookName is the workbook file name (no path), if known.
	BookName string `json:"book_name,omitempty"`
	// Sheets lists sheets in workbook order.
	Sheets []SheetData `json:"sheets"`
}

// Metadata holds the document properties written to a workbook.
type Metadata struct {
	Author         string    `yaml:"author,omitempty" json:"author,omitempty"`
	Title          string    `yaml:"title,omitempty" json:"title,omitempty"`
	Subject        string    `yaml:"subject,omitempty" json:"subject,omitempty"`
	Keywords       string    `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Category       string    `yaml:"category,omitempty" json:"category,omitempty"`
	Description    string    `yaml:"description,omitempty" json:"description,omitempty"`
	Company        string    `yaml:"company,omitempty" json:"company,omitempty"`
	LastModifiedBy string    `yaml:"last_modified_by,omitempty" json:"last_modified_by,omitempty"`
	Created        time.Time `yaml:"created,omitempty" json:"created,omitempty"`
	Modified       time.Time `yaml:"modified,omitempty" json:"modified,omitempty"`
}

// DocProperties converts the metadata to excelize document properties.
// Zero timestamps are replaced by now.
func (m Metadata) DocProperties(now time.Time) *excelize.DocProperties {
	created, modified := m.Created, m.Modified
	if created.IsZero() {
		created = now
	}
	if modified.IsZero() {
		modified = now
	}
	lastModifiedBy := m.LastModifiedBy
	if lastModifiedBy == "" {
		lastModifiedBy = m.Author
	}
	return &excelize.DocProperties{
		Creator:        m.Author,
		Title:          m.Title,
		Subject:        m.Subject,
		Keywords:       m.Keywords,
		Category:       m.Category,
		Description:    m.Description,
		LastModifiedBy: lastModifiedBy,
		Created:        created.UTC().Format(time.RFC3339),
		Modified:       modified.UTC().Format(time.RFC3339),
	}
}

// AppProperties returns the application properties carrying the company, or
// nil when no company is set.
func (m Metadata) AppProperties() *excelize.AppProperties {
	if m.Company == "" {
		return nil
	}
	return &excelize.AppProperties{Application: "Microsoft Excel", Company: m.Company}
}
