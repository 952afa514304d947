package api

const (
	// DefaultBaseURL is where the development data source listens
	DefaultBaseURL = "http://localhost:8080"

	// EndpointItems returns a JSON array of items in a range
	// Required params: start, end (exclusive)
	EndpointItems = "/cache/ips"

	// ParamStart is the first index of the requested range
	ParamStart = "start"

	// ParamEnd is the exclusive upper bound of the requested range
	ParamEnd = "end"
)
