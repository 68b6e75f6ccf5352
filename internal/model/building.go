package model

// Building represents a building tracked by the office.
type Building struct {
	Record
	Name            string `gorm:"size:255;not null;index:idx_buildings_name" json:"name"`
	Address         string `gorm:"size:255" json:"address"`
	ApprovalDate    string `gorm:"size:32" json:"approvalDate"`
	Floors          int    `gorm:"not null" json:"floors"`
	Parking         int    `gorm:"not null" json:"parking"`
	Households      int    `gorm:"not null" json:"households"`
	DoorPassword    string `gorm:"size:64" json:"doorPassword"`
	ManagementPhone string `gorm:"size:64" json:"managementPhone"`
	Memo            string `json:"memo"`
	Location        string `gorm:"size:32;index:idx_buildings_location" json:"location"`
	Type            string `gorm:"size:32;index:idx_buildings_type" json:"type"`
	Icon            string `gorm:"size:16" json:"icon"`
}

// TableName pins the table name.
func (Building) TableName() string {
	return "buildings"
}
