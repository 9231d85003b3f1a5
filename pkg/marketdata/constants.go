package marketdata

import "fmt"

// CandleInterval is the interval value used in API requests.
type CandleInterval string

// CandleIntervalMeta holds the API value and span of a candle interval.
type CandleIntervalMeta struct {
	APIValue string
	Seconds  int64
}

const (
	Interval1Min   CandleInterval = "1"
	Interval5Min   CandleInterval = "5"
	Interval15Min  CandleInterval = "15"
	Interval30Min  CandleInterval = "30"
	Interval60Min  CandleInterval = "60"
	Interval240Min CandleInterval = "240"
	IntervalDaily  CandleInterval = "D"
)

var validCandleIntervals = map[CandleInterval]CandleIntervalMeta{
	Interval1Min:   {APIValue: "1", Seconds: 60},
	Interval5Min:   {APIValue: "5", Seconds: 300},
	Interval15Min:  {APIValue: "15", Seconds: 900},
	Interval30Min:  {APIValue: "30", Seconds: 1800},
	Interval60Min:  {APIValue: "60", Seconds: 3600},
	Interval240Min: {APIValue: "240", Seconds: 14400},
	IntervalDaily:  {APIValue: "D", Seconds: 86400},
}

// IsValid checks if the CandleInterval is a predefined interval.
func (k CandleInterval) IsValid() bool {
	_, ok := validCandleIntervals[k]
	return ok
}

// ParseCandleInterval parses a string into a valid CandleIntervalMeta.
func ParseCandleInterval(s string) (CandleIntervalMeta, error) {
	meta, ok := validCandleIntervals[CandleInterval(s)]
	if !ok {
		return CandleIntervalMeta{}, fmt.Errorf("invalid CandleInterval: %s", s)
	}
	return meta, nil
}
