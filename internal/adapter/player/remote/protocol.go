package remote

// Message types sent by the browser page.
const (
	msgReady = "ready"
	msgState = "state"
	msgTime  = "time"
)

// Command types sent to the browser page.
const (
	cmdSeek  = "seek"
	cmdPlay  = "play"
	cmdPause = "pause"
)

// report is one message from the browser page.
//
//	{"type":"ready"}
//	{"type":"state","state":1,"time":12.5}
//	{"type":"time","time":12.75}
type report struct {
	Type  string  `json:"type"`
	State int     `json:"state"`
	Time  float64 `json:"time"`
}

// command is one message to the browser page.
type command struct {
	Type string   `json:"type"`
	Time *float64 `json:"time,omitempty"`
}
