// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package accessconfig

import (
	"fmt"

	"github.com/netsvc-labs/servicegen/document"
	"github.com/netsvc-labs/servicegen/types"
)

// document keys of the connection variants
const (
	keyLLDP          = "lldp"
	keyOAM           = "oam_802.3ah_link"
	keyEnabled       = "enabled"
	keySpeed         = "speed"
	keyDot1Q         = "dot1q_vlan_tagged"
	keyCVLANID       = "cvlan_id"
	keyTagType       = "tg_type"
	keyType          = "type"
	tagTypeCVLAN     = "c-vlan"
	encapsulationTag = "dot1q"
)

// Connection is the complete interface configuration of a site network access.
// It is either a PortConnection or a Dot1QConnection.
type Connection interface {
	Type() types.InterfaceType
	// apply rewrites a connection object so that it only holds this variant.
	apply(conn *document.Map)
	fmt.Stringer
}

// PortConnection is the configuration of a tagged interface type: port speed, LLDP and 802.3ah OAM.
// It is rendered as the untagged_interface object of the connection.
type PortConnection struct {
	Speed      string
	LLDP       bool
	OAMEnabled bool
}

func (PortConnection) Type() types.InterfaceType { return types.InterfaceTypeTagged }

func (c PortConnection) String() string {
	return fmt.Sprintf("speed %s, lldp %t, oam %t", c.Speed, c.LLDP, c.OAMEnabled)
}

func (c PortConnection) apply(conn *document.Map) {
	oam := document.NewMap()
	oam.Set(keyEnabled, c.OAMEnabled)

	intf := document.NewMap()
	intf.Set(keyLLDP, c.LLDP)
	intf.Set(keyOAM, oam)
	intf.Set(keySpeed, c.Speed)

	conn.Set(document.KeyEthInfType, string(c.Type()))
	conn.Set(document.KeyUntaggedInterface, intf)
	conn.Delete(document.KeyTaggedInterface)
}

// Dot1QConnection is the configuration of an untagged interface type: the customer VLAN id.
// It is rendered as the tagged_interface object of the connection.
type Dot1QConnection struct {
	CVLANID int
}

func (Dot1QConnection) Type() types.InterfaceType { return types.InterfaceTypeUntagged }

func (c Dot1QConnection) String() string {
	return fmt.Sprintf("cvlan %d", c.CVLANID)
}

func (c Dot1QConnection) apply(conn *document.Map) {
	vlan := document.NewMap()
	vlan.Set(keyCVLANID, c.CVLANID)
	vlan.Set(keyTagType, tagTypeCVLAN)

	intf := document.NewMap()
	intf.Set(keyDot1Q, vlan)
	intf.Set(keyType, encapsulationTag)

	conn.Set(document.KeyEthInfType, string(c.Type()))
	conn.Set(document.KeyTaggedInterface, intf)
	conn.Delete(document.KeyUntaggedInterface)
}
