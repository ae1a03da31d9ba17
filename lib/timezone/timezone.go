package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
}

// The portal runs on Indian Standard Time; every date it renders and
// accepts is IST. Pinning the clock here keeps date-window math
// correct no matter where the server itself is deployed.
func Now() time.Time {
	return time.Now().In(Location)
}
