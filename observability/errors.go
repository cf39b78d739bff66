package observability

import "errors"

// ErrInfluxConfig is returned when the influx observer is selected without a
// URL and bucket.
var ErrInfluxConfig = errors.New("influx observer requires url and bucket")
