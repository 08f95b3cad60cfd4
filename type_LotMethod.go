package taxlots

import "fmt"

// LotMethod defines which open lots a disposal consumes.
type LotMethod int

const (
	// FIFO (First-In, First-Out) consumes the oldest acquisitions first.
	FIFO LotMethod = iota
	// LIFO (Last-In, First-Out) consumes the newest acquisitions first.
	LIFO
	// HIFO (Highest-In, First-Out) consumes the highest unit cost first.
	HIFO
	// AverageCost reduces every open lot proportionally at a blended unit cost.
	AverageCost
)

func (m LotMethod) String() string {
	switch m {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	case HIFO:
		return "HIFO"
	case AverageCost:
		return "AVG_COST"
	default:
		return "unknown"
	}
}

// ParseLotMethod parses a string into a LotMethod.
func ParseLotMethod(s string) (LotMethod, error) {
	switch s {
	case "FIFO", "fifo":
		return FIFO, nil
	case "LIFO", "lifo":
		return LIFO, nil
	case "HIFO", "hifo":
		return HIFO, nil
	case "AVG_COST", "avg_cost", "average":
		return AverageCost, nil
	default:
		return 0, fmt.Errorf("unknown lot method: %q", s)
	}
}

// LotMethods lists every supported method.
func LotMethods() []LotMethod { return []LotMethod{FIFO, LIFO, HIFO, AverageCost} }

func (m LotMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *LotMethod) UnmarshalText(text []byte) error {
	v, err := ParseLotMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
