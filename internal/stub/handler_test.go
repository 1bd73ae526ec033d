package stub

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPage int
		wantPer  int
		wantName string
		wantDate string
		wantErr  bool
	}{
		{
			name:     "defaults",
			url:      "/api/orders",
			wantPage: 1,
			wantPer:  10,
		},
		{
			name:     "full_query",
			url:      "/api/orders?page=2&per_page=25&customerName=Ann&date=2025-06-15",
			wantPage: 2,
			wantPer:  25,
			wantName: "Ann",
			wantDate: "2025-06-15",
		},
		{
			name:     "out_of_range_clamped",
			url:      "/api/orders?page=0&per_page=5000",
			wantPage: 1,
			wantPer:  100,
		},
		{
			name:    "bad_page",
			url:     "/api/orders?page=abc",
			wantErr: true,
		},
		{
			name:    "bad_date",
			url:     "/api/orders?date=15-06-2025",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parseListQuery(httptest.NewRequest("GET", tt.url, nil))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantPer, q.PerPage)
			assert.Equal(t, tt.wantName, q.CustomerName)
			if tt.wantDate == "" {
				assert.Nil(t, q.Date)
			} else if assert.NotNil(t, q.Date) {
				assert.Equal(t, tt.wantDate, q.Date.Format("2006-01-02"))
			}
		})
	}
}
