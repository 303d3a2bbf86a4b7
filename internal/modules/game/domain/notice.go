package domain

import "github.com/shopspring/decimal"

// AssignmentNotice tells a sender who they are giving to.
type AssignmentNotice struct {
	GameID       int64
	GameName     string
	SenderID     int64
	ReceiverID   int64
	ReceiverName string
	// WishText is empty when the receiver has not written a wish.
	WishText string
	Budget   decimal.Decimal
	Currency Currency
}

// JoinNotice tells an organizer that someone joined their game.
type JoinNotice struct {
	GameID          int64
	GameName        string
	OrganizerID     int64
	ParticipantID   int64
	ParticipantName string
}
