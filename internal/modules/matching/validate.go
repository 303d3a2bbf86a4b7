package matching

import "fmt"

const MinParticipants = 2

// Assignment is a single giver -> receiver pair.
type Assignment struct {
	Sender   int64 `json:"sender"`
	Receiver int64 `json:"receiver"`
}

// Constraints is what is left to match once manual assignments are applied.
// All slices keep the participants' join order.
type Constraints struct {
	// Free participants are not named by any manual assignment.
	Free []int64
	// Senders still need a receiver.
	Senders []int64
	// Receivers still need a sender.
	Receivers []int64
}

// Validate checks manual against participants and computes the Constraints
// for the random part of a draw.
func Validate(participants []int64, manual []Assignment) (Constraints, error) {
	members := make(map[int64]struct{}, len(participants))
	ordered := make([]int64, 0, len(participants))
	for _, p := range participants {
		if _, seen := members[p]; seen {
			continue
		}
		members[p] = struct{}{}
		ordered = append(ordered, p)
	}

	if len(ordered) < MinParticipants {
		return Constraints{}, fmt.Errorf("%w: have %d", ErrInsufficientParticipants, len(ordered))
	}

	manualSenders := make(map[int64]struct{}, len(manual))
	manualReceivers := make(map[int64]struct{}, len(manual))

	for _, a := range manual {
		if _, ok := members[a.Sender]; !ok {
			return Constraints{}, fmt.Errorf("%w: sender %d", ErrManualAssignmentOutOfScope, a.Sender)
		}

		if _, ok := members[a.Receiver]; !ok {
			return Constraints{}, fmt.Errorf("%w: receiver %d", ErrManualAssignmentOutOfScope, a.Receiver)
		}

		manualSenders[a.Sender] = struct{}{}
		manualReceivers[a.Receiver] = struct{}{}
	}

	if err := checkConflicts(manual); err != nil {
		return Constraints{}, err
	}

	c := Constraints{
		Free:      make([]int64, 0, len(ordered)),
		Senders:   make([]int64, 0, len(ordered)),
		Receivers: make([]int64, 0, len(ordered)),
	}

	for _, p := range ordered {
		_, isSender := manualSenders[p]
		_, isReceiver := manualReceivers[p]

		if !isSender {
			c.Senders = append(c.Senders, p)
		}

		if !isReceiver {
			c.Receivers = append(c.Receivers, p)
		}

		if !isSender && !isReceiver {
			c.Free = append(c.Free, p)
		}
	}

	return c, nil
}

func checkConflicts(manual []Assignment) error {
	senders := make(map[int64]struct{}, len(manual))
	receivers := make(map[int64]struct{}, len(manual))

	for _, a := range manual {
		if a.Sender == a.Receiver {
			return fmt.Errorf("%w: %d is pinned to themselves", ErrManualAssignmentConflict, a.Sender)
		}

		if _, dup := senders[a.Sender]; dup {
			return fmt.Errorf("%w: %d is pinned as sender twice", ErrManualAssignmentConflict, a.Sender)
		}

		if _, dup := receivers[a.Receiver]; dup {
			return fmt.Errorf("%w: %d is pinned as receiver twice", ErrManualAssignmentConflict, a.Receiver)
		}

		senders[a.Sender] = struct{}{}
		receivers[a.Receiver] = struct{}{}
	}

	return nil
}
