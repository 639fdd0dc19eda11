package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		panic(err)
	}
}

// force the clock into the retailers' timezone, servers may end up
// anywhere and day boundaries matter when bucketing price history
func Now() time.Time {
	return time.Now().In(Location)
}
