// Package backup writes and restores JSON backups of the building list.
package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"building-registry/internal/importer"
	"building-registry/internal/model"
	"building-registry/internal/store"
)

const (
	FormatVersion = "1.0"
	ExportedFrom  = "building-registry"
)

//go:embed schema/backup.json
var schemaJSON []byte

var fileSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("backup.json", bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("backup schema: %v", err))
	}
	return compiler.MustCompile("backup.json")
}

type Metadata struct {
	Version      string `json:"version"`
	BackupDate   string `json:"backupDate"`
	TotalCount   int    `json:"totalCount"`
	ExportedFrom string `json:"exportedFrom"`
}

// File is the backup document. Metadata is nil when the document has none.
type File struct {
	Metadata  *Metadata        `json:"metadata"`
	Buildings []model.Building `json:"buildings"`
}

// Create renders buildings as an indented backup document.
func Create(buildings []model.Building, now time.Time) ([]byte, error) {
	if buildings == nil {
		buildings = []model.Building{}
	}
	f := File{
		Metadata: &Metadata{
			Version:      FormatVersion,
			BackupDate:   now.UTC().Format(store.TimeLayout),
			TotalCount:   len(buildings),
			ExportedFrom: ExportedFrom,
		},
		Buildings: buildings,
	}
	return json.MarshalIndent(f, "", "  ")
}

// FileName is the download name for a backup taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("buildings-backup-%s.json", now.Format(time.DateOnly))
}

// Parse decodes a backup document. A document whose buildings is missing or
// not an array fails with a validation error.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("파일 읽기 실패: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &importer.ValidationError{Errors: []string{"파일 파싱 실패: " + err.Error()}}
	}
	if err := fileSchema.Validate(doc); err != nil {
		return nil, &importer.ValidationError{Errors: []string{"유효한 백업 파일이 아닙니다", err.Error()}}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &importer.ValidationError{Errors: []string{"파일 파싱 실패: " + err.Error()}}
	}
	if f.Buildings == nil {
		f.Buildings = []model.Building{}
	}
	return &f, nil
}

// Report is the outcome of Validate.
type Report struct {
	IsValid  bool      `json:"isValid"`
	Errors   []string  `json:"errors"`
	Metadata *Metadata `json:"metadata"`
	Count    int       `json:"count"`
}

// Validate checks that metadata is present and every building has a name
// and an address.
func Validate(f *File) Report {
	errs := []string{}
	if f.Metadata == nil {
		errs = append(errs, "메타데이터가 없습니다")
	}
	for i, b := range f.Buildings {
		if b.Name == "" || b.Address == "" {
			errs = append(errs, fmt.Sprintf("행 %d: 필수 정보가 없습니다", i+1))
		}
	}
	return Report{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Metadata: f.Metadata,
		Count:    len(f.Buildings),
	}
}

// MergeResult is the outcome of Merge.
type MergeResult struct {
	Merged       []model.Building `json:"merged"`
	ToAdd        []model.Building `json:"toAdd"`
	AddedCount   int              `json:"addedCount"`
	SkippedCount int              `json:"skippedCount"`
}

// Merge keeps every existing building and adds the incoming ones whose name
// is not taken. An incoming id that is already stored is dropped so a new
// one is generated on insert.
func Merge(existing, incoming []model.Building) MergeResult {
	names := make(map[string]struct{}, len(existing))
	ids := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		names[b.Name] = struct{}{}
		ids[b.ID] = struct{}{}
	}

	toAdd := make([]model.Building, 0, len(incoming))
	for _, b := range incoming {
		if _, dup := names[b.Name]; dup {
			continue
		}
		if _, taken := ids[b.ID]; taken {
			b.ID = ""
		}
		toAdd = append(toAdd, b)
	}

	merged := make([]model.Building, 0, len(existing)+len(toAdd))
	merged = append(merged, existing...)
	merged = append(merged, toAdd...)
	return MergeResult{
		Merged:       merged,
		ToAdd:        toAdd,
		AddedCount:   len(toAdd),
		SkippedCount: len(incoming) - len(toAdd),
	}
}
