package sumohelper

import (
	"fmt"
)

const (
	DEFAULT_LANES_NUM   = 2
	DEFAULT_SPEED_LIMIT = 13.89
	DEFAULT_EDGE_LENGTH = 100.0
)

// Parser Reads a serialized network description and produces a routable Network
/*
	The parser is liberal: a description with some unusable nodes or edges
	still yields a usable partial network, every skipped element producing a
	warning. Strict mode turns the first skipped element into a failure.
*/
type Parser struct {
	networkID     string
	defaultLanes  int
	defaultSpeed  float64
	defaultLength float64
	strictMode    bool
	verbose       bool
}

func (parser *Parser) String() string {
	return fmt.Sprintf(`
Network parser parameters:
	network_id: '%s'
	default_lanes: %d
	default_speed: %f
	default_length: %f
	strict_mode enabled?: %t
	verbose?: %t
	`,
		parser.networkID,
		parser.defaultLanes,
		parser.defaultSpeed,
		parser.defaultLength,
		parser.strictMode,
		parser.verbose,
	)
}

// NewParser returns a parser with given options applied
func NewParser(options ...func(*Parser)) *Parser {
	parser := &Parser{
		defaultLanes:  DEFAULT_LANES_NUM,
		defaultSpeed:  DEFAULT_SPEED_LIMIT,
		defaultLength: DEFAULT_EDGE_LENGTH,
		strictMode:    false,
		verbose:       false,
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

// WithNetworkID sets the identifier the produced network will carry
func WithNetworkID(networkID string) func(*Parser) {
	return func(parser *Parser) {
		parser.networkID = networkID
	}
}

// WithDefaultLanes sets the lane count substituted when an edge misses the attribute
func WithDefaultLanes(defaultLanes int) func(*Parser) {
	return func(parser *Parser) {
		parser.defaultLanes = defaultLanes
	}
}

// WithDefaultSpeed sets the speed (m/s) substituted when an edge misses the attribute
func WithDefaultSpeed(defaultSpeed float64) func(*Parser) {
	return func(parser *Parser) {
		parser.defaultSpeed = defaultSpeed
	}
}

// WithDefaultLength sets the length (meters) substituted when an edge misses the attribute
func WithDefaultLength(defaultLength float64) func(*Parser) {
	return func(parser *Parser) {
		parser.defaultLength = defaultLength
	}
}

// WithStrictMode makes any malformed element abort the parse instead of being skipped
func WithStrictMode(strictMode bool) func(*Parser) {
	return func(parser *Parser) {
		parser.strictMode = strictMode
	}
}

// WithVerbose enables progress output
func WithVerbose(verbose bool) func(*Parser) {
	return func(parser *Parser) {
		parser.verbose = verbose
	}
}
