package taxlots

import "fmt"

// EventType tags a LedgerEvent. The set is closed: every switch over it in
// this package is exhaustive and returns an error on unknown values.
type EventType int

const (
	eventTypeUnknown EventType = iota
	Buy
	Sell
	SwapIn  // inbound leg of a swap
	SwapOut // outbound leg of a swap
	Reward
	StakingReward
	Airdrop
	TransferIn
	TransferOut
	Fee // in-kind fee paid in asset units
)

var eventTypeNames = map[EventType]string{
	Buy:           "BUY",
	Sell:          "SELL",
	SwapIn:        "SWAP_IN",
	SwapOut:       "SWAP_OUT",
	Reward:        "REWARD",
	StakingReward: "STAKING_REWARD",
	Airdrop:       "AIRDROP",
	TransferIn:    "TRANSFER_IN",
	TransferOut:   "TRANSFER_OUT",
	Fee:           "FEE",
}

// EventTypes lists every known event type in declaration order.
func EventTypes() []EventType {
	return []EventType{Buy, Sell, SwapIn, SwapOut, Reward, StakingReward, Airdrop, TransferIn, TransferOut, Fee}
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	_, ok := eventTypeNames[t]
	return ok
}

// IsReward reports whether events of that type are income: rewards, staking
// rewards and airdrops.
func (t EventType) IsReward() bool {
	switch t {
	case Reward, StakingReward, Airdrop:
		return true
	default:
		return false
	}
}

// ParseEventType parses the ledger tag of an event.
func ParseEventType(s string) (EventType, error) {
	for t, name := range eventTypeNames {
		if name == s {
			return t, nil
		}
	}
	return eventTypeUnknown, fmt.Errorf("unknown event type: %q", s)
}

func (t EventType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown event type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(text []byte) error {
	v, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
