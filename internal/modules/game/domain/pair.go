package domain

import (
	"errors"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/matching"
)

var ErrSelfPair = errors.New("a participant cannot give to themselves")

// Pair is a committed giver -> receiver assignment. Manual pairs were
// pinned by an administrator before the draw.
type Pair struct {
	ID         int64 `db:"id" json:"id"`
	GameID     int64 `db:"game_id" json:"game_id"`
	SenderID   int64 `db:"sender_id" json:"sender_id"`
	ReceiverID int64 `db:"receiver_id" json:"receiver_id"`
	Manual     bool  `db:"is_manual" json:"manual"`
}

func NewManualPair(gameID, senderID, receiverID int64) (Pair, error) {
	if senderID == receiverID {
		return Pair{}, ErrSelfPair
	}

	return Pair{
		GameID:     gameID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Manual:     true,
	}, nil
}

func (p Pair) Assignment() matching.Assignment {
	return matching.Assignment{Sender: p.SenderID, Receiver: p.ReceiverID}
}

func PairsFromPlan(gameID int64, pairings []matching.Pairing) []Pair {
	pairs := make([]Pair, 0, len(pairings))
	for _, p := range pairings {
		pairs = append(pairs, Pair{
			GameID:     gameID,
			SenderID:   p.Sender,
			ReceiverID: p.Receiver,
			Manual:     p.Manual,
		})
	}
	return pairs
}
