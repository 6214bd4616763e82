// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterfaceType(t *testing.T) {
	tests := []struct {
		in   string
		want InterfaceType
		err  bool
	}{
		{in: "tagged", want: InterfaceTypeTagged},
		{in: " Untagged ", want: InterfaceTypeUntagged},
		{in: "TAGGED", want: InterfaceTypeTagged},
		{in: "trunk", err: true},
		{in: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterfaceType(tt.in)
			if tt.err {
				require.Error(t, err)
				assert.Equal(t, InterfaceTypeUnset, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterfaceTypeString(t *testing.T) {
	assert.Equal(t, "unset", InterfaceTypeUnset.String())
	assert.Equal(t, "tagged", InterfaceTypeTagged.String())
}
