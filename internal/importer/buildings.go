package importer

import (
	"fmt"
	"strings"

	"building-registry/internal/lookup"
	"building-registry/internal/model"
	"building-registry/internal/parse"
)

// Report summarizes the validation of a sheet. Row numbers in Errors count
// the header as row 1.
type Report struct {
	IsValid    bool     `json:"isValid"`
	Errors     []string `json:"errors"`
	ValidCount int      `json:"validCount"`
	TotalCount int      `json:"totalCount"`
}

func newReport(errs []string, valid, total int) Report {
	if errs == nil {
		errs = []string{}
	}
	return Report{IsValid: len(errs) == 0, Errors: errs, ValidCount: valid, TotalCount: total}
}

// ValidateBuildings checks that every row has a name and that location and
// type, when given, come from the fixed sets.
func ValidateBuildings(rows []Row) Report {
	var errs []string
	valid := 0
	for i, row := range rows {
		line := i + 2
		if row.Get(lookup.ColBuildingName) == "" {
			errs = append(errs, fmt.Sprintf("행 %d: 건물명이 필수입니다", line))
		} else {
			valid++
		}
		if v := row.Get(lookup.ColLocation); v != "" && !lookup.IsLocation(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 유효하지 않은 위치입니다 (%s). 가능한 값: %s",
				line, v, strings.Join(lookup.Locations, ", ")))
		}
		if v := row.Get(lookup.ColType); v != "" && !lookup.IsType(v) {
			errs = append(errs, fmt.Sprintf("행 %d: 유효하지 않은 유형입니다 (%s). 가능한 값: %s",
				line, v, strings.Join(lookup.Types, ", ")))
		}
	}
	return newReport(errs, valid, len(rows))
}

// NormalizeBuilding maps a row to a building. Counts keep only their digits
// and default to 0.
func NormalizeBuilding(row Row) model.Building {
	return model.Building{
		Name:            row.Get(lookup.ColBuildingName),
		Address:         row.Get(lookup.ColAddress),
		ApprovalDate:    row.Get(lookup.ColApprovalDate),
		Floors:          parse.Count(row.Get(lookup.ColFloors)),
		Parking:         parse.Count(row.Get(lookup.ColParking)),
		Households:      parse.Count(row.Get(lookup.ColHouseholds)),
		DoorPassword:    row.Get(lookup.ColDoorPassword),
		ManagementPhone: row.Get(lookup.ColManagementPhone),
		Location:        row.Get(lookup.ColLocation),
		Type:            row.Get(lookup.ColType),
		Memo:            row.Get(lookup.ColMemo),
		Icon:            lookup.DefaultBuildingIcon,
	}
}

// NormalizeBuildings maps every row.
func NormalizeBuildings(rows []Row) []model.Building {
	out := make([]model.Building, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeBuilding(row))
	}
	return out
}
