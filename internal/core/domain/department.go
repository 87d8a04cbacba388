package domain

// Department represents an organizational unit within a company.
type Department struct {
	DepartmentID string `json:"departmentID"`
	CompanyID    string `json:"companyID"` // Owning scope
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required"`
	TypeID       string `json:"typeID"`    // FK -> DepartmentType
	SubTypeID    string `json:"subTypeID"` // FK -> DepartmentSubType
	AuditFields
}

// DepartmentType is a reference record classifying departments.
type DepartmentType struct {
	TypeID string `json:"typeID"`
	Name   string `json:"name"`
}

// DepartmentSubType is a reference record refining a DepartmentType.
type DepartmentSubType struct {
	SubTypeID string `json:"subTypeID"`
	TypeID    string `json:"typeID"` // FK -> DepartmentType
	Name      string `json:"name"`
}
