package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "holidaytracker/internal/errors"
)

func TestHolidayPatch_FieldPresence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want HolidayPatch
	}{
		{name: "empty object", body: `{}`, want: HolidayPatch{}},
		{
			name: "description only",
			body: `{"description":"x"}`,
			want: HolidayPatch{Description: Some("x")},
		},
		{
			name: "explicit null",
			body: `{"description":null}`,
			want: HolidayPatch{Description: Null[string]()},
		},
		{
			name: "falsy but defined",
			body: `{"name":"","description":""}`,
			want: HolidayPatch{Name: Some(""), Description: Some("")},
		},
		{
			name: "dates",
			body: `{"startDate":"2025-01-02","endDate":"2025-01-03"}`,
			want: HolidayPatch{StartDate: Some("2025-01-02"), EndDate: Some("2025-01-03")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got HolidayPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHolidayPatch_Empty(t *testing.T) {
	assert.True(t, HolidayPatch{}.Empty())
	assert.False(t, HolidayPatch{Description: Null[string]()}.Empty())
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var p HolidayPatch
	err := json.Unmarshal([]byte(`{"name":42}`), &p)
	assert.Error(t, err)
}

func TestOptional_Ptr(t *testing.T) {
	assert.Nil(t, Optional[string]{}.Ptr())
	assert.Nil(t, Null[string]().Ptr())
	require.NotNil(t, Some("a").Ptr())
	assert.Equal(t, "a", *Some("a").Ptr())
}

func TestOptional_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(HolidayPatch{Name: Some("Trip")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Trip","startDate":null,"endDate":null,"description":null}`, string(out))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-12-24")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate(" 2025-12-24T10:30:00+02:00 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 24, 8, 30, 0, 0, time.UTC), got)

	got, err = ParseDate("2025-12-24T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "   ", "24/12/2025", "2025-13-01", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.Truef(t, errors.Is(err, apperrors.ErrInvalidDate), "input %q", bad)
	}
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	name := "Ann"
	out, err := json.Marshal(User{ID: 1, Email: "a@example.com", Name: &name, PasswordHash: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.Contains(t, string(out), `"email":"a@example.com"`)
}
