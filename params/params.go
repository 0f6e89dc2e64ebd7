package params

// Version is the meshscout release version
const Version = "0.3.1"

/////////////////////////////////////////////////////////////////

type ProtocolVersion = uint8

const (
	// ClientAPIV1 is the first client<->device protocol version
	ClientAPIV1 = ProtocolVersion(1)
)

var CurrentProtocolVersion = ClientAPIV1

////////////////////////////////////////////////////////////////

const (
	// DefaultTCPPort is the device client API port used when the
	// address carries no explicit port
	DefaultTCPPort = 4403

	// DefaultListenSeconds is the default discovery window length
	DefaultListenSeconds = 15
)
