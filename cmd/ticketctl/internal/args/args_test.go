package args

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtiro/tickets/pkg/sdk"
)

func TestID(t *testing.T) {
	id, err := ID("event id", " 7f1d2c9e-0000-4000-8000-000000000001 ")
	require.NoError(t, err)
	assert.Equal(t, "7f1d2c9e-0000-4000-8000-000000000001", id.String())

	_, err = ID("event id", "42")
	var invalid *sdk.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "event id", invalid.Field)
}

func TestTime(t *testing.T) {
	got, err := Time("start", "2026-12-24T18:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 24, 18, 0, 0, 0, time.Local), got.Time)

	got, err = Time("start", "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = Time("start", "tomorrow")
	assert.Error(t, err)
}

func TestTicketType(t *testing.T) {
	tests := []struct {
		def     string
		want    sdk.TicketTypeInput
		wantErr bool
	}{
		{def: "General:50", want: sdk.TicketTypeInput{Name: "General", Price: 50}},
		{def: "VIP:120.5:10:Front row", want: sdk.TicketTypeInput{Name: "VIP", Price: 120.5, TotalAvailable: intPtr(10), Description: "Front row"}},
		{def: "Late:5::Door only", want: sdk.TicketTypeInput{Name: "Late", Price: 5, Description: "Door only"}},
		{def: "NoPrice", wantErr: true},
		{def: ":10", wantErr: true},
		{def: "Bad:ten", wantErr: true},
		{def: "Bad:10:many", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			got, err := TicketType(tt.def)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTicketTypes(t *testing.T) {
	got, err := TicketTypes([]string{"A:1", "B:2:3"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, *got[1].TotalAvailable)

	_, err = TicketTypes([]string{"A:1", "oops"})
	assert.Error(t, err)
}

func intPtr(v int) *int { return &v }
