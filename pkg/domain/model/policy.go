package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Policy holds service-wide group policy loaded from a YAML file.
// Zero limits mean unlimited.
type Policy struct {
	ReservedNames []string `yaml:"reserved_names,omitempty"` // Group names that cannot be created
	MaxMembers    int      `yaml:"max_members,omitempty"`    // Member cap per group (0 = unlimited)
	MaxBoards     int      `yaml:"max_boards,omitempty"`     // Board cap per group (0 = unlimited)
}

// DefaultPolicy returns a policy with no restrictions
func DefaultPolicy() *Policy {
	return &Policy{}
}

// Validate validates the policy
func (p *Policy) Validate() error {
	if p.MaxMembers < 0 {
		return goerr.New("max_members must not be negative", goerr.V("max_members", p.MaxMembers))
	}
	if p.MaxBoards < 0 {
		return goerr.New("max_boards must not be negative", goerr.V("max_boards", p.MaxBoards))
	}
	for _, name := range p.ReservedNames {
		if strings.TrimSpace(name) == "" {
			return goerr.New("reserved name entries must not be empty")
		}
	}
	return nil
}

// IsReserved reports whether the group name is reserved. Comparison is
// case-insensitive so "Admin" cannot dodge a reservation of "admin".
func (p *Policy) IsReserved(name types.GroupName) bool {
	for _, reserved := range p.ReservedNames {
		if strings.EqualFold(reserved, name.String()) {
			return true
		}
	}
	return false
}

// MemberLimitReached reports whether adding one more member would exceed the cap
func (p *Policy) MemberLimitReached(current int) bool {
	return p.MaxMembers > 0 && current >= p.MaxMembers
}

// BoardLimitReached reports whether attaching one more board would exceed the cap
func (p *Policy) BoardLimitReached(current int) bool {
	return p.MaxBoards > 0 && current >= p.MaxBoards
}
