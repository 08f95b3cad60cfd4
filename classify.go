package taxlots

import "fmt"

// Class is the accounting effect of an event on the lots of its asset.
type Class int

const (
	// ClassNeutral events leave lots untouched.
	ClassNeutral Class = iota
	// ClassAcquisition events open a new lot.
	ClassAcquisition
	// ClassDisposal events consume open lots and realize a gain or a loss.
	ClassDisposal
)

func (c Class) String() string {
	switch c {
	case ClassNeutral:
		return "neutral"
	case ClassAcquisition:
		return "acquisition"
	case ClassDisposal:
		return "disposal"
	default:
		return "unknown"
	}
}

// Classify returns the class of an event type under the transfer policy.
func (p TransferPolicy) Classify(t EventType) (Class, error) {
	switch t {
	case Buy, SwapIn, Reward, StakingReward, Airdrop:
		return ClassAcquisition, nil
	case Sell, SwapOut, Fee:
		return ClassDisposal, nil
	case TransferIn:
		if p == TransfersCustody {
			return ClassNeutral, nil
		}
		return ClassAcquisition, nil
	case TransferOut:
		if p == TransfersCustody {
			return ClassNeutral, nil
		}
		return ClassDisposal, nil
	default:
		return ClassNeutral, fmt.Errorf("cannot classify event type %v", t)
	}
}
