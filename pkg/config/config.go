package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DataDir     string // directory for session recordings and downloaded audio
	LogLevel    string // sets the log level (zap log level values)
	LogFormat   string // text vs json
	APIAddr     string // listen addr for the HTTP API
	EnableAPI   bool   // if true, the HTTP API is served
	LiveURL     string // base URL of the upstream live timing host
	NatsURL     string // if set, messages are consumed from this NATS server instead of the websocket feed
	NatsSubject string // subject to subscribe to when NatsURL is set
	Speed       int    // replay speed factor (1 = realtime)
	Delay       string // initial playback delay (duration)
	WhisperURL  string // endpoint of the transcription service
)

// Config holds the configuration values which are used by the application
type Config struct {
	PrintMessage bool // if true, the message payload will be print on debug level
}
