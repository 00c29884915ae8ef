package common

const ReportExchange = "lane_reports"

type Summary struct {
	Draws    int64   `json:"draws"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"var"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type LaneReport struct {
	Lane uint32 `json:"lane"`

	Summary

	CounterAfter [4]uint32 `json:"ctrAfter"`
}

type RunReport struct {
	Job  JobHeader   `json:"job"`
	Spec MomentsSpec `json:"spec"`

	Lanes  []LaneReport `json:"lanes"`
	Merged Summary      `json:"merged"`

	ElapsedMillis int64 `json:"elapsedMs"`
}

type StreamHead struct {
	Spec StreamSpec `json:"spec"`

	Values       [][4]float64 `json:"values"`
	CounterAfter [4]uint32    `json:"ctrAfter"`
}

type AMQPReport struct {
	RunID  string    `json:"runId"`
	Report RunReport `json:"report"`
}
