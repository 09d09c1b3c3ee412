package attendance

// DayState is the lifecycle position of an employee's record for one day.
// Only NoRecord, CheckedIn and CheckedOut implement it.
type DayState interface {
	dayState()
}

// NoRecord means no check-in has happened. Existing is set when a row exists
// without a check-in time, which check-in then fills in place.
type NoRecord struct {
	Existing *Attendance
}

type CheckedIn struct {
	Record Attendance
}

type CheckedOut struct {
	Record Attendance
}

func (NoRecord) dayState()   {}
func (CheckedIn) dayState()  {}
func (CheckedOut) dayState() {}

// StateOf derives the day state from a possibly missing record.
func StateOf(rec *Attendance) DayState {
	switch {
	case rec == nil:
		return NoRecord{}
	case rec.CheckInTime == nil:
		return NoRecord{Existing: rec}
	case rec.CheckOutTime == nil:
		return CheckedIn{Record: *rec}
	default:
		return CheckedOut{Record: *rec}
	}
}

// BeginCheckIn returns the row to fill in (nil when a new row must be created).
func BeginCheckIn(s DayState) (*Attendance, error) {
	switch st := s.(type) {
	case NoRecord:
		return st.Existing, nil
	case CheckedIn, CheckedOut:
		return nil, ErrAlreadyCheckedIn
	default:
		panic("attendance: unknown day state")
	}
}

// BeginCheckOut returns the checked-in record that may be closed.
func BeginCheckOut(s DayState) (Attendance, error) {
	switch st := s.(type) {
	case NoRecord:
		return Attendance{}, ErrNoCheckInToday
	case CheckedIn:
		return st.Record, nil
	case CheckedOut:
		return Attendance{}, ErrAlreadyCheckedOut
	default:
		panic("attendance: unknown day state")
	}
}

func IsCheckedIn(s DayState) bool {
	_, ok := s.(CheckedIn)
	return ok
}
