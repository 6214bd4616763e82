// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONKeepsKeyOrder(t *testing.T) {
	in := `{"zeta":1,"alpha":{"y":true,"b":[3,"x",null]},"mid":"{TOKEN}"}`

	m, err := ParseJSON([]byte(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())

	nested, ok := m.GetMap("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nested.Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestParseJSONErrors(t *testing.T) {
	tests := map[string]string{
		"array root":    `[1,2]`,
		"trailing data": `{"a":1} {"b":2}`,
		"broken":        `{"a":`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParseYAMLKeepsKeyOrder(t *testing.T) {
	in := `
design_id: "{DESIGN_IDENTIFIER}"
l2vpn_svc:
  sites:
    site:
      - site_id: "{SITE_ID}"
        mtu: 1500
customer_id: "{CUSTOMER_UUID}"
`
	m, err := ParseYAML([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"design_id", "l2vpn_svc", "customer_id"}, m.Keys())

	sites, err := Sites(m)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, []string{"site_id", "mtu"}, sites[0].Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t,
		`{"design_id":"{DESIGN_IDENTIFIER}","l2vpn_svc":{"sites":{"site":[{"site_id":"{SITE_ID}","mtu":1500}]}},"customer_id":"{CUSTOMER_UUID}"}`,
		string(out))
}

func TestMarshalYAMLNumbers(t *testing.T) {
	m, err := ParseJSON([]byte(`{"mtu":1500,"ratio":0.5,"name":"a"}`))
	require.NoError(t, err)

	b, err := MarshalYAML(m)
	require.NoError(t, err)
	assert.Equal(t, "mtu: 1500\nratio: 0.5\nname: a\n", string(b))
}

func TestMapDeleteAndSet(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	m.Set("a", 10)
	m.Set("b", 20)

	assert.Equal(t, []string{"a", "c", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, 10, v)
}

func TestCloneIsDeep(t *testing.T) {
	m, err := ParseJSON([]byte(`{"a":{"b":["x",{"c":"y"}]}}`))
	require.NoError(t, err)

	c := CloneMap(m)
	a, _ := c.GetMap("a")
	l, _ := a.GetList("b")
	l[1].(*Map).Set("c", "changed")
	a.Set("new", true)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "changed"))
	assert.False(t, strings.Contains(string(out), "new"))
}
