package sumohelper

import (
	"github.com/pkg/errors"
)

// Request-level and element-level failure classes. Element-level problems
// (a single bad node or edge) are swallowed into warnings by the parser and
// serializer; these sentinels surface only when a whole request can not be
// served. Wrapped errors keep the sentinel reachable via errors.Is().
var (
	// ErrMalformedInput Network description carries no parseable payload at all
	ErrMalformedInput = errors.New("malformed network description")
	// ErrInvalidDistribution Vehicle distribution percentages do not sum up to 100
	ErrInvalidDistribution = errors.New("vehicle distribution percentages must sum up to 100")
	// ErrNoRoutableVehicles Every attempted vehicle failed to find a path
	ErrNoRoutableVehicles = errors.New("no vehicle could be routed between selected entry and exit points")
	// ErrUnresolvedReference Edge references a node which is not present in the network
	ErrUnresolvedReference = errors.New("edge references a missing node")
)
