package clock

import "time"

// Clock supplies the engine's single per-operation reading of "now" and
// "today". Injecting it keeps date-bucketed limits testable.
type Clock interface {
	Now() time.Time
	Today() string
}

const dateLayout = "2006-01-02"

type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Today() string {
	return c.Now().Format(dateLayout)
}

// Fixed is a clock pinned to one instant, for deterministic tests.
type Fixed struct {
	Time time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Time
}

func (f *Fixed) Today() string {
	return f.Time.Format(dateLayout)
}
