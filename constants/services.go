package constants

const (
	ServiceEVPNVPWS  = "evpn_vpws"
	ServiceL2Circuit = "l2circuit"
)

// DesignIDs maps a service type to the Routing Director design identifier.
var DesignIDs = map[string]string{
	ServiceEVPNVPWS:  "eline-evpn-vpws-csm",
	ServiceL2Circuit: "eline-l2circuit-nsm",
}

const (
	NotApplicable = "N/A"

	// MinParticipants is the smallest number of devices a point to point service connects.
	MinParticipants = 2

	MinCVLANID = 1
	MaxCVLANID = 4094
)

const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)
