package media

// Well-known entity functions. Backends are free to report other values;
// these cover the common graph roles.
const (
	// FunctionSensor is an image sensor entity.
	FunctionSensor = "sensor"

	// FunctionProcessor is a processing block (ISP, debayer, scaler).
	FunctionProcessor = "processor"

	// FunctionVideoNode is a video capture or output node.
	FunctionVideoNode = "video-node"
)

// Entity is a named sub-node within a media device's graph.
// Matching rules compare entity names by exact string equality.
type Entity struct {
	// Name is the entity name as reported by the driver.
	Name string `yaml:"name"`

	// Function describes the entity's role in the graph.
	Function string `yaml:"function,omitempty"`
}

// EntityInfo is the snapshot form of an Entity.
type EntityInfo struct {
	Name     string `cbor:"1,keyasint" json:"name"`
	Function string `cbor:"2,keyasint,omitempty" json:"function,omitempty"`
}
