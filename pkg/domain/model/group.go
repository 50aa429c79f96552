package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Group represents a named collection of members with a single admin and a
// list of attached boards. The admin is the creator and never changes.
type Group struct {
	Name      types.GroupName `json:"name"`
	Admin     types.UserID    `json:"admin"`
	Members   []types.UserID  `json:"members"`
	Boards    []types.BoardID `json:"boards"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewGroup creates a new Group with empty member and board lists
func NewGroup(name types.GroupName, creator types.UserID) (*Group, error) {
	if name == "" {
		return nil, goerr.New("group name is required")
	}
	if creator == "" {
		return nil, goerr.New("creator user ID is required")
	}

	return &Group{
		Name:      name,
		Admin:     creator,
		Members:   []types.UserID{},
		Boards:    []types.BoardID{},
		CreatedAt: time.Now(),
	}, nil
}

// IsAdmin reports whether the user is the group admin
func (g *Group) IsAdmin(user types.UserID) bool {
	return user != "" && user == g.Admin
}

// HasMember reports whether the user is in the member list
func (g *Group) HasMember(user types.UserID) bool {
	for _, m := range g.Members {
		if m == user {
			return true
		}
	}
	return false
}

// HasBoard reports whether the board is attached to the group
func (g *Group) HasBoard(board types.BoardID) bool {
	for _, b := range g.Boards {
		if b == board {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the group
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	groupCopy := *g
	groupCopy.Members = append([]types.UserID{}, g.Members...)
	groupCopy.Boards = append([]types.BoardID{}, g.Boards...)
	return &groupCopy
}
