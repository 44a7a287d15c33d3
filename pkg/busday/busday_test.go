package busday_test

import (
	"testing"
	"time"

	"github.com/buildvane/rfihub/pkg/busday"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start time.Time
		days  int
		want  time.Time
	}{
		{
			name:  "five days from a Monday spans one weekend",
			start: date(2024, time.January, 1), // Monday
			days:  5,
			want:  date(2024, time.January, 8), // Monday
		},
		{
			name:  "one day from a Friday lands on Monday",
			start: date(2024, time.January, 5), // Friday
			days:  1,
			want:  date(2024, time.January, 8),
		},
		{
			name:  "starting on a Saturday counts from the next weekday",
			start: date(2024, time.January, 6), // Saturday
			days:  1,
			want:  date(2024, time.January, 8),
		},
		{
			name:  "zero days is identity",
			start: date(2024, time.January, 3),
			days:  0,
			want:  date(2024, time.January, 3),
		},
		{
			name:  "negative days is identity",
			start: date(2024, time.January, 3),
			days:  -2,
			want:  date(2024, time.January, 3),
		},
		{
			name:  "two full weeks",
			start: date(2024, time.January, 1),
			days:  10,
			want:  date(2024, time.January, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, busday.Add(tt.start, tt.days))
		})
	}
}

func TestIsBusinessDay(t *testing.T) {
	t.Parallel()

	require.True(t, busday.IsBusinessDay(date(2024, time.January, 1)))   // Monday
	require.True(t, busday.IsBusinessDay(date(2024, time.January, 5)))   // Friday
	require.False(t, busday.IsBusinessDay(date(2024, time.January, 6)))  // Saturday
	require.False(t, busday.IsBusinessDay(date(2024, time.January, 7)))  // Sunday
}
