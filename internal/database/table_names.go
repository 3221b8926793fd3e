package database

import "fmt"

// TableNames holds the prefixed table names for the current environment
type TableNames struct {
	Cabinets         string
	Documents        string
	DocumentCabinets string
	PermissionGrants string
	AccessEntries    string
	Events           string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Cabinets:         fmt.Sprintf("%scabinets", prefix),
		Documents:        fmt.Sprintf("%sdocuments", prefix),
		DocumentCabinets: fmt.Sprintf("%sdocument_cabinets", prefix),
		PermissionGrants: fmt.Sprintf("%spermission_grants", prefix),
		AccessEntries:    fmt.Sprintf("%saccess_entries", prefix),
		Events:           fmt.Sprintf("%sevents", prefix),
	}
}

// All returns every table name in creation order
func (t *TableNames) All() []string {
	return []string{t.Cabinets, t.Documents, t.DocumentCabinets, t.PermissionGrants, t.AccessEntries, t.Events}
}
