package constants

// Global placeholder tokens filled by the resolver.
const (
	TokenCustomerUUID       = "{CUSTOMER_UUID}"
	TokenDesignIdentifier   = "{DESIGN_IDENTIFIER}"
	TokenInstanceIdentifier = "{INSTANCE_IDENTIFIER}"
	TokenInstanceUUID       = "{INSTANCE_UUID}"
)

// Per-site tokens filled while stamping the prototype site.
const (
	TokenSiteID      = "{SITE_ID}"
	TokenAccessID    = "{ACCESS_ID}"
	TokenCountryCode = "{COUNTRY_CODE}"
	TokenPostalCode  = "{POSTAL_CODE}"
	TokenDeviceID    = "{DEVICE_ID}"
	TokenHostname    = "{HOSTNAME}"
	TokenSiteName    = "{SITE_NAME}"
)

// Interface tokens left for the interface configuration exchange.
const (
	TokenEthernetIntfType = "{ETHERNET_INTF_TYPE}"
	TokenCVLANID          = "{CVLAN_ID}"
	TokenLLDP             = "{LLDP_BOOLEAN}"
	TokenOAMEnabled       = "{OAM_ENABLED_BOOLEAN}"
	TokenSpeed            = "{SPEED}"
)

// InterfaceTokens lists the tokens that the interface configuration exchange resolves.
var InterfaceTokens = []string{
	TokenEthernetIntfType,
	TokenCVLANID,
	TokenLLDP,
	TokenOAMEnabled,
	TokenSpeed,
}
