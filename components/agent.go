package components

// Position is an integer grid position.
type Position struct {
	X, Y int
}

// DistSq returns the squared Euclidean distance to o.
func (p Position) DistSq(o Position) int {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// AgentKind identifies which role an agent entity plays.
type AgentKind uint8

const (
	KindIrrigator AgentKind = iota
	KindHarvester
	KindSensor
)

func (k AgentKind) String() string {
	switch k {
	case KindIrrigator:
		return "irrigator"
	case KindHarvester:
		return "harvester"
	case KindSensor:
		return "sensor"
	default:
		return "unknown"
	}
}

// Agent tags an entity as one of the plot's agents.
type Agent struct {
	Kind AgentKind
	Name string
}

// Activity holds the last visible output of an agent.
type Activity struct {
	Message string
	Active  bool // acted on a plant during the last tick

	Irrigations int
	Emergencies int
	Harvested   int
	Removed     int
}
