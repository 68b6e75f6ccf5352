package model

// Property represents a sale or lease listing, optionally linked to a building.
type Property struct {
	Record
	PropertyName string  `gorm:"size:255;not null" json:"propertyName"`
	BuildingID   *string `gorm:"size:64;index:idx_properties_building_id" json:"buildingId"`
	Category     string  `gorm:"size:16;index:idx_properties_category" json:"category"`
	Location     string  `gorm:"size:32" json:"location"`
	Type         string  `gorm:"size:32" json:"type"`
	Price        int64   `gorm:"not null" json:"price"`
	ReceivedDate string  `gorm:"size:10;index:idx_properties_received_date" json:"receivedDate"`
	MoveInDate   string  `gorm:"size:10" json:"moveInDate"`
	Owner        string  `gorm:"size:64" json:"owner"`
	OwnerPhone   string  `gorm:"size:64" json:"ownerPhone"`
	Memo         string  `json:"memo"`

	// Nil means vacant or not applicable.
	RentalStatus *RentalStatus `gorm:"serializer:json;type:text" json:"rentalStatus"`
}

// RentalStatus describes the tenant currently operating a property.
type RentalStatus struct {
	Name          string `json:"name"`
	Rent          int64  `json:"rent"`
	Premium       int64  `json:"premium"`
	OperatorPhone string `json:"operatorPhone"`
}

// TableName pins the table name.
func (Property) TableName() string {
	return "properties"
}

// BuildingRef returns the linked building id. An empty id counts as no link.
func (p Property) BuildingRef() (string, bool) {
	if p.BuildingID == nil || *p.BuildingID == "" {
		return "", false
	}
	return *p.BuildingID, true
}

// Leased reports whether a tenant currently occupies the property.
func (p Property) Leased() bool {
	return p.RentalStatus != nil
}
