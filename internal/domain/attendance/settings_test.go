package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, second, 0, time.FixedZone("UTC+07:00", 7*3600))
}

func TestStatusAt_LateBoundaryIsExclusive(t *testing.T) {
	ws := WorkSettings{WorkStartTime: "08:00", WorkEndTime: "17:00", LateThresholdMinutes: 15}

	cases := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"early", at(7, 30, 0), StatusPresent},
		{"on start", at(8, 0, 0), StatusPresent},
		{"exactly threshold", at(8, 15, 0), StatusPresent},
		{"threshold with seconds", at(8, 15, 59), StatusPresent},
		{"one minute past", at(8, 16, 0), StatusLate},
		{"afternoon", at(13, 0, 0), StatusLate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ws.StatusAt(c.now)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestIsEarlyCheckout(t *testing.T) {
	ws := WorkSettings{WorkStartTime: "08:00", WorkEndTime: "17:00", LateThresholdMinutes: 15}

	early, err := ws.IsEarlyCheckout(at(14, 59, 0))
	require.NoError(t, err)
	assert.True(t, early)

	early, err = ws.IsEarlyCheckout(at(15, 0, 0))
	require.NoError(t, err)
	assert.False(t, early)

	early, err = ws.IsEarlyCheckout(at(17, 30, 0))
	require.NoError(t, err)
	assert.False(t, early)
}

func TestWorkSettings_Validate(t *testing.T) {
	assert.NoError(t, WorkSettings{WorkStartTime: "08:00", WorkEndTime: "17:00"}.Validate())
	assert.Error(t, WorkSettings{WorkStartTime: "8", WorkEndTime: "17:00"}.Validate())
	assert.Error(t, WorkSettings{WorkStartTime: "18:00", WorkEndTime: "17:00"}.Validate())
	assert.Error(t, WorkSettings{WorkStartTime: "08:00", WorkEndTime: "17:00", LateThresholdMinutes: -1}.Validate())
}
