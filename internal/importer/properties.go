package importer

import (
	"fmt"
	"strings"
	"time"

	"building-registry/internal/lookup"
	"building-registry/internal/model"
	"building-registry/internal/parse"
)

// BuildingFinder resolves building names during property import.
type BuildingFinder interface {
	BuildingByName(name string) (model.Building, bool)
}

// ValidateProperties checks each row for a usable listing name, values from
// the fixed sets, YYYY-MM-DD dates, and that a building named in the 건물
// column already exists.
func ValidateProperties(rows []Row, buildings BuildingFinder) Report {
	var errs []string
	valid := 0
	for i, row := range rows {
		line := i + 2
		if propertyName(row) == "" {
			errs = append(errs, fmt.Sprintf("행 %d: 매물명 또는 건물명이 필수입니다", line))
			continue
		}
		valid++

		if v := row.Get(lookup.ColLocation); v != "" && !lookup.IsLocation(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 유효하지 않은 위치입니다 (%s). 가능한 값: %s",
				line, v, strings.Join(lookup.Locations, ", ")))
		}
		if v := row.Get(lookup.ColPropertyType); v != "" && !lookup.IsType(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 유효하지 않은 매물유형입니다 (%s). 가능한 값: %s",
				line, v, strings.Join(lookup.Types, ", ")))
		}
		if v := row.Get(lookup.ColCategory); v != "" && !lookup.IsCategory(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 유효하지 않은 구분입니다 (%s). 가능한 값: %s",
				line, v, strings.Join(lookup.Categories, ", ")))
		}
		if v := row.Get(lookup.ColBuilding); v != "" {
			if _, ok := buildings.BuildingByName(v); !ok {
				errs = append(errs, fmt.Sprintf("행 %d: 존재하지 않는 건물입니다 (%s). 먼저 건물을 추가하세요.", line, v))
			}
		}
		if v := row.Get(lookup.ColReceivedDate); v != "" && !parse.IsISODate(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 접수일 형식이 잘못되었습니다 (%s). 형식: YYYY-MM-DD", line, v))
		}
		if v := row.Get(lookup.ColMoveInDate); v != "" && !parse.IsISODate(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 입주일 형식이 잘못되었습니다 (%s). 형식: YYYY-MM-DD", line, v))
		}
	}
	return newReport(errs, valid, len(rows))
}

// NormalizeProperty maps a row to a property. The building link is resolved
// by name from the 건물 column, else from 건물명; an unknown name leaves the
// property unlinked. Category defaults to 매매 and receivedDate to today.
func NormalizeProperty(row Row, buildings BuildingFinder, today time.Time) model.Property {
	p := model.Property{
		PropertyName: propertyName(row),
		Category:     row.Get(lookup.ColCategory),
		Location:     row.Get(lookup.ColLocation),
		Type:         row.Get(lookup.ColPropertyType),
		Price:        parse.Digits(row.Get(lookup.ColPrice)),
		ReceivedDate: row.Get(lookup.ColReceivedDate),
		MoveInDate:   row.Get(lookup.ColMoveInDate),
		Owner:        row.Get(lookup.ColOwner),
		OwnerPhone:   row.Get(lookup.ColOwnerPhone),
		Memo:         row.Get(lookup.ColMemo),
	}
	if p.Category == "" {
		p.Category = lookup.CategorySale
	}
	if p.ReceivedDate == "" {
		p.ReceivedDate = today.Format(time.DateOnly)
	}

	name := row.Get(lookup.ColBuilding)
	if name == "" {
		name = row.Get(lookup.ColBuildingName)
	}
	if name != "" {
		if b, ok := buildings.BuildingByName(name); ok {
			id := b.ID
			p.BuildingID = &id
		}
	}
	return p
}

// NormalizeProperties maps every row.
func NormalizeProperties(rows []Row, buildings BuildingFinder, today time.Time) []model.Property {
	out := make([]model.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeProperty(row, buildings, today))
	}
	return out
}

// propertyName prefers the explicit 매물명 and falls back to
// "<건물명> <호실명>".
func propertyName(row Row) string {
	if v := row.Get(lookup.ColPropertyName); v != "" {
		return v
	}
	return parse.PropertyName(row.Get(lookup.ColBuildingName), row.Get(lookup.ColUnit))
}
