package ctdf

type TransportMode string

const (
	TransportModeWalk  TransportMode = "walk"
	TransportModeBus   TransportMode = "bus"
	TransportModeTube  TransportMode = "tube"
	TransportModeTrain TransportMode = "train"
	TransportModeError TransportMode = "error"
)

const WalkingLine = "Person"

type Leg struct {
	Mode        TransportMode `json:"mode" groups:"basic"`
	Line        string        `json:"line,omitempty" groups:"basic"`
	Disruptions bool          `json:"disruptions" groups:"basic"`

	// Upstream descriptions of the disruptions on the line, for tube and bus legs.
	DisruptionDetails []string `json:"disruptionDetails,omitempty" groups:"detailed"`

	FinalDestination string `json:"finalDestination,omitempty" groups:"basic"`

	Duration int `json:"duration" groups:"basic"`

	DepartureTime     *ClockTime `json:"departureTime,omitempty" groups:"basic"`
	DepartureStation  string     `json:"departureStation,omitempty" groups:"basic"`
	DeparturePlatform string     `json:"departurePlatform,omitempty" groups:"basic"`

	ArrivalTime    *ClockTime `json:"arrivalTime,omitempty" groups:"basic"`
	ArrivalStation string     `json:"arrivalStation,omitempty" groups:"basic"`

	Status string `json:"status,omitempty" groups:"basic"`
}

// Depart sets the departure time and derives the arrival time from the duration.
func (l *Leg) Depart(departure ClockTime) {
	arrival := departure.AddMinutes(l.Duration)

	l.DepartureTime = &departure
	l.ArrivalTime = &arrival
}

// Arrival returns the arrival time, or ok=false if the leg has not been scheduled.
func (l *Leg) Arrival() (ClockTime, bool) {
	if l.ArrivalTime == nil {
		return 0, false
	}

	return *l.ArrivalTime, true
}

type Journey struct {
	Legs []Leg `json:"legs" groups:"basic"`
}

// NewErrorJourney wraps a message as the single error leg that clients render
// in place of a route.
func NewErrorJourney(message string) Journey {
	return Journey{
		Legs: []Leg{
			{
				Mode:        TransportModeError,
				Disruptions: true,
				Status:      message,
			},
		},
	}
}
