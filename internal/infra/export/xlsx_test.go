//go:build unit

package export_test

import (
	"bytes"
	"testing"
	"time"

	"tool-rental/internal/infra/export"
	"tool-rental/internal/usecase/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExporter(t *testing.T) {
	exporter := export.NewXLSXExporter()
	rows := []shared.ExportRow{
		{
			RentalNumber:    "RNT-004",
			Status:          "Active",
			Employee:        "ZW - Zoe Weber",
			Purpose:         "Site survey",
			ProjectCode:     "P-100",
			StartDate:       time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
			ItemCount:       3,
			DeficitQuantity: 1,
			TotalCost:       decimal.RequireFromString("120.50"),
			CreatedAt:       time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := exporter.Render(rows)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", exporter.FileExtension())

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("Rentals")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rental number", got[0][0])
	assert.Equal(t, "RNT-004", got[1][0])
	assert.Equal(t, "2026-03-06", got[1][6])
	assert.Equal(t, "120.5", got[1][9])
}
