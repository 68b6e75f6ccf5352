package model

// Record holds the identity and timestamps shared by every stored entity.
// Timestamps are ISO-8601 UTC strings with millisecond precision.
type Record struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt string `gorm:"size:32;autoCreateTime:false" json:"createdAt"`
	UpdatedAt string `gorm:"size:32;autoUpdateTime:false" json:"updatedAt"`
}

// Meta gives the storage layer access to the embedded record fields.
func (r *Record) Meta() *Record {
	return r
}

// SchemaMeta stores key/value facts about the schema itself, such as its version.
type SchemaMeta struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"size:255;not null"`
}

// TableName pins the table name.
func (SchemaMeta) TableName() string {
	return "registry_meta"
}
