package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")

	assert.Equal(t, "dev_cabinets", tables.Cabinets)
	assert.Equal(t, "dev_document_cabinets", tables.DocumentCabinets)
	assert.Equal(t, "dev_events", tables.Events)
	assert.Len(t, tables.All(), 6)

	bare := NewTableNames("")
	assert.Equal(t, "access_entries", bare.AccessEntries)
}
