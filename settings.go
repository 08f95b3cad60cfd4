package taxlots

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	toml "github.com/pelletier/go-toml/v2"
)

// RewardsCostBasisMode selects the cost basis of reward class acquisitions.
type RewardsCostBasisMode int

const (
	// RewardsAtZero gives rewards a zero cost basis.
	RewardsAtZero RewardsCostBasisMode = iota
	// RewardsAtFMV uses the fair market value at reception.
	RewardsAtFMV
)

func (m RewardsCostBasisMode) String() string {
	switch m {
	case RewardsAtZero:
		return "ZERO"
	case RewardsAtFMV:
		return "FMV"
	default:
		return "unknown"
	}
}

func (m RewardsCostBasisMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *RewardsCostBasisMode) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "ZERO":
		*m = RewardsAtZero
	case "FMV":
		*m = RewardsAtFMV
	default:
		return fmt.Errorf("unknown rewards cost basis mode: %q", text)
	}
	return nil
}

// TransferPolicy decides how TRANSFER_IN and TRANSFER_OUT events are treated.
type TransferPolicy int

const (
	// TransfersTaxable makes TRANSFER_IN an acquisition and TRANSFER_OUT a disposal.
	TransfersTaxable TransferPolicy = iota
	// TransfersCustody ignores transfers: they move custody, not ownership.
	TransfersCustody
)

func (p TransferPolicy) String() string {
	switch p {
	case TransfersTaxable:
		return "taxable"
	case TransfersCustody:
		return "custody"
	default:
		return "unknown"
	}
}

func (p TransferPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *TransferPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "taxable":
		*p = TransfersTaxable
	case "custody":
		*p = TransfersCustody
	default:
		return fmt.Errorf("unknown transfer policy: %q", text)
	}
	return nil
}

// TaxProfile names a tax jurisdiction profile. Some profiles mandate a lot
// method for compliance.
type TaxProfile string

const (
	ProfileGeneric TaxProfile = "GENERIC"
	ProfileUS      TaxProfile = "US"
	ProfileDE      TaxProfile = "DE"
	ProfileUK      TaxProfile = "UK"
)

// mandatedMethods lists the profiles that force a lot method.
var mandatedMethods = map[TaxProfile]LotMethod{
	ProfileDE: FIFO,
	ProfileUK: AverageCost,
}

var knownProfiles = []TaxProfile{ProfileGeneric, ProfileUS, ProfileDE, ProfileUK}

// MandatedMethod returns the lot method required by the profile, if any.
func (p TaxProfile) MandatedMethod() (LotMethod, bool) {
	m, ok := mandatedMethods[p]
	return m, ok
}

func (p TaxProfile) known() bool {
	for _, k := range knownProfiles {
		if k == p {
			return true
		}
	}
	return false
}

// Settings is the immutable configuration of a replay or report call.
type Settings struct {
	BaseCurrency         string               `toml:"base_currency"`
	DefaultLotMethod     LotMethod            `toml:"lot_method"`
	RewardsCostBasisMode RewardsCostBasisMode `toml:"rewards_cost_basis"`
	TaxProfile           TaxProfile           `toml:"tax_profile"`
	TransferPolicy       TransferPolicy       `toml:"transfer_policy"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency:         "USD",
		DefaultLotMethod:     FIFO,
		RewardsCostBasisMode: RewardsAtZero,
		TaxProfile:           ProfileGeneric,
		TransferPolicy:       TransfersTaxable,
	}
}

// Validate checks the settings for correctness.
func (s Settings) Validate() error {
	var errs []error
	if s.BaseCurrency == "" {
		errs = append(errs, errors.New("base currency is missing"))
	} else if money.GetCurrency(s.BaseCurrency) == nil {
		errs = append(errs, fmt.Errorf("unknown base currency %q", s.BaseCurrency))
	}
	if s.TaxProfile != "" && !s.TaxProfile.known() {
		errs = append(errs, fmt.Errorf("unknown tax profile %q", s.TaxProfile))
	}
	return errors.Join(errs...)
}

// LotMethodFor resolves the lot method of a call: an explicit override wins,
// then a method mandated by the tax profile, then the default method.
func (s Settings) LotMethodFor(override *LotMethod) LotMethod {
	if override != nil {
		return *override
	}
	if m, ok := s.TaxProfile.MandatedMethod(); ok {
		return m
	}
	return s.DefaultLotMethod
}

// DecodeSettings reads settings in TOML format. Missing keys keep their
// default value.
func DecodeSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("could not decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// EncodeSettings writes settings in TOML format.
func EncodeSettings(w io.Writer, s Settings) error {
	return toml.NewEncoder(w).Encode(s)
}
