// Package datamall provides a client for the LTA DataMall land-transport
// APIs: carpark availability, traffic incidents, bus arrivals and platform
// crowd density.
package datamall

// CarparkRecord is one carpark availability row.
type CarparkRecord struct {
	CarParkID     string `json:"CarParkID"`
	Area          string `json:"Area"`
	Development   string `json:"Development"`
	Location      string `json:"Location"` // "lat lng"
	AvailableLots int    `json:"AvailableLots"`
	LotType       string `json:"LotType"`
	Agency        string `json:"Agency"`
}

// BusArrival is one upcoming bus arrival at a stop for one service.
type BusArrival struct {
	OriginCode       string `json:"OriginCode"`
	DestinationCode  string `json:"DestinationCode"`
	EstimatedArrival string `json:"EstimatedArrival"` // ISO 8601
	Load             string `json:"Load"`
	Feature          string `json:"Feature"`
	Type             string `json:"Type"`
}

// StationCrowd is the real-time crowd level at one station platform.
// CrowdLevel is qualitative: "l" (low), "m" (moderate) or "h" (high).
type StationCrowd struct {
	Station    string `json:"Station"`
	StartTime  string `json:"StartTime"`
	EndTime    string `json:"EndTime"`
	CrowdLevel string `json:"CrowdLevel"`
}
