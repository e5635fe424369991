package engine

// ControlType identifies an action from the controlling interface.
type ControlType string

const (
	ControlSetParam ControlType = "SET_PARAM"
	ControlPause    ControlType = "PAUSE"
	ControlResume   ControlType = "RESUME"
	ControlReset    ControlType = "RESET"
	ControlBackwash ControlType = "BACKWASH"
)

// Parameter names accepted by SET_PARAM. They match the JSON field names of
// sim.Params so the front-end can reuse its state keys.
const (
	ParamPressure          = "pressure"
	ParamPoreSize          = "pore_size"
	ParamMeanSoluteSize    = "mean_solute_size"
	ParamFeedConcentration = "feed_concentration"
	ParamStirRate          = "stir_rate"
)

// Control is a single action queued for application between frames.
type Control struct {
	Type  ControlType `json:"type"`
	Param string      `json:"param,omitempty"`
	Value float64     `json:"value,omitempty"`
}
