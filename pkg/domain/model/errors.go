package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrGroupNotFound      = goerr.New("group not found")
	ErrGroupExists        = goerr.New("group name is already taken")
	ErrNameReserved       = goerr.New("group name is reserved")
	ErrPermissionDenied   = goerr.New("requestor does not have admin privileges over this group")
	ErrAlreadyMember      = goerr.New("the group already contains this member")
	ErrNotMember          = goerr.New("user is not a member of this group")
	ErrGroupFull          = goerr.New("group capacity limit reached")
	ErrInvitationNotFound = goerr.New("invitation not found")
	ErrInvitationExists   = goerr.New("a pending invitation already exists")
	ErrInvitationClosed   = goerr.New("invitation is no longer pending")
	ErrInvalidInvitation  = goerr.New("invalid invitation")
	ErrBoardNotFound      = goerr.New("board not found")
	ErrBoardExists        = goerr.New("board is already attached to this group")
)
