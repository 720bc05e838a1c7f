package player

import "fmt"

// Request is a record tagged with the kind it must be classified as.
// Exactly one of Batsman or Bowler is set and it always matches Kind.
type Request struct {
	Kind    Kind
	Batsman *BatsmanRecord
	Bowler  *BowlerRecord
}

// NewBatsmanRequest tags a batting record.
func NewBatsmanRequest(r BatsmanRecord) Request {
	return Request{Kind: Batsman, Batsman: &r}
}

// NewBowlerRequest tags a bowling record.
func NewBowlerRequest(r BowlerRecord) Request {
	return Request{Kind: Bowler, Bowler: &r}
}

// PlayerName returns the player field of whichever record is set.
func (r Request) PlayerName() string {
	switch {
	case r.Batsman != nil:
		return r.Batsman.Player
	case r.Bowler != nil:
		return r.Bowler.Player
	default:
		return ""
	}
}

// Validate checks that the payload agrees with the tag and that the record
// itself is well formed.
func (r Request) Validate() error {
	switch r.Kind {
	case Batsman:
		if r.Batsman == nil || r.Bowler != nil {
			return fmt.Errorf("%w: expected batsman record", ErrPayloadMismatch)
		}
		return r.Batsman.Validate()
	case Bowler:
		if r.Bowler == nil || r.Batsman != nil {
			return fmt.Errorf("%w: expected bowler record", ErrPayloadMismatch)
		}
		return r.Bowler.Validate()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(r.Kind))
	}
}
