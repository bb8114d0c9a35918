package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleTo(t *testing.T) {
	groupA := uint(1)
	groupB := uint(2)

	tests := []struct {
		name            string
		contentGroupIDs []uint
		userGroupID     *uint
		want            bool
	}{
		{
			name:            "public content is visible to a grouped user",
			contentGroupIDs: nil,
			userGroupID:     &groupA,
			want:            true,
		},
		{
			name:            "public content is visible to an ungrouped user",
			contentGroupIDs: nil,
			userGroupID:     nil,
			want:            true,
		},
		{
			name:            "restricted content is visible to a member",
			contentGroupIDs: []uint{1, 3},
			userGroupID:     &groupA,
			want:            true,
		},
		{
			name:            "restricted content is hidden from other groups",
			contentGroupIDs: []uint{1, 3},
			userGroupID:     &groupB,
			want:            false,
		},
		{
			name:            "restricted content is hidden from an ungrouped user",
			contentGroupIDs: []uint{1},
			userGroupID:     nil,
			want:            false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleTo(tt.contentGroupIDs, tt.userGroupID)

			assert.Equal(t, tt.want, got)
		})
	}
}
