// Package lookup holds the fixed value sets shared by buildings and
// properties, and the Korean column names used by import and export.
package lookup

import "slices"

var (
	Locations  = []string{"마곡", "발산", "향교", "나루", "신방화", "가양", "등촌", "공항", "화곡", "기타"}
	Types      = []string{"오피스텔", "상업용", "아파트", "지산", "기타"}
	Categories = []string{CategorySale, CategoryLease}
)

const (
	CategorySale  = "매매"
	CategoryLease = "임대"

	DefaultBuildingIcon = "🏢"
)

// Column headers for building sheets.
const (
	ColBuildingName    = "건물명"
	ColAddress         = "지번"
	ColApprovalDate    = "사용승인일"
	ColFloors          = "층수"
	ColParking         = "주차대수"
	ColHouseholds      = "세대수"
	ColDoorPassword    = "공동현관비번"
	ColManagementPhone = "관리실번호"
	ColLocation        = "위치"
	ColType            = "유형"
	ColMemo            = "메모"
)

// Column headers for property sheets.
const (
	ColPropertyName = "매물명"
	ColUnit         = "호실명"
	ColBuilding     = "건물"
	ColCategory     = "구분"
	ColReceivedDate = "접수일"
	ColPrice        = "금액"
	ColMoveInDate   = "입주일"
	ColOwner        = "소유자"
	ColOwnerPhone   = "소유자번호"
	ColPropertyType = "매물유형"
)

// BuildingColumns is the header order of building sheets.
var BuildingColumns = []string{
	ColBuildingName, ColAddress, ColApprovalDate, ColFloors, ColParking, ColHouseholds,
	ColDoorPassword, ColManagementPhone, ColLocation, ColType, ColMemo,
}

// PropertyColumns is the header order of property sheets.
var PropertyColumns = []string{
	ColPropertyName, ColBuildingName, ColUnit, ColBuilding, ColCategory, ColReceivedDate, ColPrice,
	ColMoveInDate, ColOwner, ColOwnerPhone, ColLocation, ColPropertyType, ColMemo,
}

func IsLocation(v string) bool { return slices.Contains(Locations, v) }

func IsType(v string) bool { return slices.Contains(Types, v) }

func IsCategory(v string) bool { return slices.Contains(Categories, v) }

// Table is the JSON shape served to UIs.
type Table struct {
	Locations  []string `json:"locations"`
	Types      []string `json:"types"`
	Categories []string `json:"categories"`
}

// All returns copies of every value set.
func All() Table {
	return Table{
		Locations:  slices.Clone(Locations),
		Types:      slices.Clone(Types),
		Categories: slices.Clone(Categories),
	}
}
