package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateOf(t *testing.T) {
	in := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	out := in.Add(9 * time.Hour)

	assert.IsType(t, NoRecord{}, StateOf(nil))

	empty := &Attendance{ID: 4}
	st, ok := StateOf(empty).(NoRecord)
	require.True(t, ok)
	assert.Equal(t, int64(4), st.Existing.ID)

	assert.IsType(t, CheckedIn{}, StateOf(&Attendance{CheckInTime: &in}))
	assert.IsType(t, CheckedOut{}, StateOf(&Attendance{CheckInTime: &in, CheckOutTime: &out}))
}

func TestTransitions(t *testing.T) {
	in := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	out := in.Add(time.Hour)

	existing, err := BeginCheckIn(StateOf(nil))
	require.NoError(t, err)
	assert.Nil(t, existing)

	_, err = BeginCheckIn(StateOf(&Attendance{CheckInTime: &in}))
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	_, err = BeginCheckIn(StateOf(&Attendance{CheckInTime: &in, CheckOutTime: &out}))
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	_, err = BeginCheckOut(StateOf(nil))
	assert.ErrorIs(t, err, ErrNoCheckInToday)

	_, err = BeginCheckOut(StateOf(&Attendance{ID: 1}))
	assert.ErrorIs(t, err, ErrNoCheckInToday)

	rec, err := BeginCheckOut(StateOf(&Attendance{ID: 2, CheckInTime: &in}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ID)

	_, err = BeginCheckOut(StateOf(&Attendance{CheckInTime: &in, CheckOutTime: &out}))
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}
