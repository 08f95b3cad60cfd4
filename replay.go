package taxlots

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReplayOptions configures a replay call.
type ReplayOptions struct {
	Settings Settings
	Method   LotMethod
	// Until bounds the replay to events timestamped at or before it. The zero
	// value replays the full history.
	Until time.Time
	// Parallel replays assets concurrently. The result is identical.
	Parallel bool
	// Logger receives debug traces. Nil means no logging.
	Logger *zerolog.Logger
}

// Disposal is the realized outcome of one disposal event. Disposals are never
// modified once emitted.
type Disposal struct {
	EventID    string
	AssetID    string
	DisposedAt time.Time
	// Amount is the amount actually matched against open lots.
	Amount Quantity
	// Shortfall is the part of the requested amount that no open lot could
	// cover. It is zero unless an insufficient_lots warning was raised.
	Shortfall         Quantity
	Proceeds          Money
	CostBasisConsumed Money
	Fee               Money
	RealizedGain      Money
	LotsMatched       []LotMatch
	TaxYear           int

	seq int
}

// Position is the aggregate of the open lots of an asset.
type Position struct {
	AssetID       string
	Amount        Quantity
	CostBasisBase Money
}

// Balance sums the amounts of an asset through a replay. Acquired always
// equals Disposed plus Open.
type Balance struct {
	Acquired Quantity
	Disposed Quantity
	Open     Quantity
}

// Book is the terminal state of one replay pass.
type Book struct {
	Method    LotMethod
	Lots      []Lot      // open lots, grouped by asset in acquisition order
	Disposals []Disposal // in event order
	Positions []Position // sorted by asset id
	Warnings  []Warning  // in event order

	balances map[string]Balance
}

// Balance returns the amount balance of an asset.
func (b *Book) Balance(assetID string) Balance { return b.balances[assetID] }

// lotNamespace derives deterministic lot ids from event ids.
var lotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/taxlots/lot"))

// Replay consumes the ledger events and returns the open lots, the disposals
// and the positions they produce under the lot method of opts.
//
// Each call owns its state: nothing is shared between calls, and replaying the
// same events with the same options yields the same Book.
func Replay(events []LedgerEvent, opts ReplayOptions) (*Book, error) {
	normalized, err := Normalize(events, opts.Settings.TransferPolicy)
	if err != nil {
		return nil, err
	}
	if !opts.Until.IsZero() {
		normalized = slices.DeleteFunc(normalized, func(e LedgerEvent) bool {
			return e.Timestamp.After(opts.Until)
		})
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	// Assets are independent: each gets its own book of lots.
	byAsset := make(map[string][]LedgerEvent)
	for _, e := range normalized {
		byAsset[e.AssetID] = append(byAsset[e.AssetID], e)
	}
	assets := make([]string, 0, len(byAsset))
	for a := range byAsset {
		assets = append(assets, a)
	}
	slices.Sort(assets)

	r := replayer{
		strategy: StrategyFor(opts.Method),
		settings: opts.Settings,
		log:      log.With().Str("method", opts.Method.String()).Logger(),
	}
	books := make([]*assetBook, len(assets))
	if opts.Parallel {
		var g errgroup.Group
		for i, asset := range assets {
			g.Go(func() (err error) {
				books[i], err = r.replayAsset(asset, byAsset[asset])
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, asset := range assets {
			if books[i], err = r.replayAsset(asset, byAsset[asset]); err != nil {
				return nil, err
			}
		}
	}
	return mergeBooks(opts.Method, books), nil
}

// replayer holds the immutable configuration shared by every asset of a call.
type replayer struct {
	strategy Strategy
	settings Settings
	log      zerolog.Logger
}

// seqWarning remembers the position of the event that raised the warning.
type seqWarning struct {
	at  time.Time
	seq int
	Warning
}

// compareEvents orders by timestamp then original position, like Normalize.
func compareEvents(at1 time.Time, seq1 int, at2 time.Time, seq2 int) int {
	if c := at1.Compare(at2); c != 0 {
		return c
	}
	return seq1 - seq2
}

// assetBook is the working state of a single asset.
type assetBook struct {
	asset     string
	lots      []Lot
	disposals []Disposal
	warnings  []seqWarning
	balance   Balance
}

func (r replayer) replayAsset(asset string, events []LedgerEvent) (*assetBook, error) {
	b := &assetBook{asset: asset}
	for _, e := range events {
		class, err := r.settings.TransferPolicy.Classify(e.Type)
		if err != nil {
			return nil, fmt.Errorf("replay of %q: %w", e.ID, err)
		}
		switch class {
		case ClassAcquisition:
			r.acquire(b, e)
		case ClassDisposal:
			r.dispose(b, e)
		case ClassNeutral:
			r.log.Debug().Str("event", e.ID).Str("asset", asset).Stringer("type", e.Type).Msg("neutral event skipped")
		}
	}
	for _, l := range b.lots {
		b.balance.Open = b.balance.Open.Add(l.AmountRemaining)
	}
	return b, nil
}

// acquisitionCost returns the cost basis of an acquisition event. ok is false
// when a fair market value was required but missing.
func acquisitionCost(e LedgerEvent, mode RewardsCostBasisMode) (cost Money, ok bool) {
	if e.CostBasis != nil {
		return *e.CostBasis, true
	}
	if e.Type.IsReward() {
		return rewardCostBasis(e, mode)
	}
	return Money{}, true
}

func (r replayer) acquire(b *assetBook, e LedgerEvent) {
	cost, ok := acquisitionCost(e, r.settings.RewardsCostBasisMode)
	if !ok {
		b.warn(e, WarnMissingFMV)
		r.log.Warn().Str("event", e.ID).Str("asset", b.asset).Msg("reward without fair market value, cost basis set to zero")
	}
	b.balance.Acquired = b.balance.Acquired.Add(e.Amount)
	if e.Amount.IsZero() {
		return
	}
	l := Lot{
		ID:                 uuid.NewSHA1(lotNamespace, []byte(b.asset+"/"+e.ID)).String(),
		AssetID:            b.asset,
		AcquiredAt:         e.Timestamp,
		AmountRemaining:    e.Amount,
		CostBasisRemaining: cost.In(r.settings.BaseCurrency),
		OriginEventID:      e.ID,
		seq:                e.Seq,
	}
	b.lots = append(b.lots, l)
	r.log.Debug().Str("event", e.ID).Str("asset", b.asset).Stringer("amount", l.AmountRemaining).Str("cost", cost.Exact()).Str("unitCost", l.unitCost().Exact()).Msg("lot opened")
}

func (r replayer) dispose(b *assetBook, e LedgerEvent) {
	base := r.settings.BaseCurrency
	requested := e.Amount.Abs()
	matches := r.strategy.Select(b.lots, requested)

	d := Disposal{
		EventID:           e.ID,
		AssetID:           b.asset,
		DisposedAt:        e.Timestamp,
		Proceeds:          valueOf(e.Proceeds).In(base),
		Fee:               valueOf(e.Fee).In(base),
		CostBasisConsumed: M(0, base),
		TaxYear:           e.TaxYear(),
		seq:               e.Seq,
	}
	for _, m := range matches {
		l := &b.lots[m.index]
		l.AmountRemaining = l.AmountRemaining.Sub(m.Amount)
		l.CostBasisRemaining = l.CostBasisRemaining.Sub(m.CostBasis)
		d.Amount = d.Amount.Add(m.Amount)
		d.CostBasisConsumed = d.CostBasisConsumed.Add(m.CostBasis)
		d.LotsMatched = append(d.LotsMatched, m)
	}
	b.lots = slices.DeleteFunc(b.lots, func(l Lot) bool { return l.AmountRemaining.IsZero() })

	d.Shortfall = requested.Sub(d.Amount)
	if d.Shortfall.IsPositive() {
		b.warn(e, WarnInsufficientLots)
		r.log.Warn().Str("event", e.ID).Str("asset", b.asset).Stringer("shortfall", d.Shortfall).Msg("disposal exceeds open lots, clamped")
	}
	d.RealizedGain = d.Proceeds.Sub(d.CostBasisConsumed).Sub(d.Fee)
	b.balance.Disposed = b.balance.Disposed.Add(d.Amount)
	b.disposals = append(b.disposals, d)
	r.log.Debug().Str("event", e.ID).Str("asset", b.asset).Stringer("amount", d.Amount).Str("gain", d.RealizedGain.Exact()).Msg("lots disposed")
}

func (b *assetBook) warn(e LedgerEvent, code string) {
	b.warnings = append(b.warnings, seqWarning{at: e.Timestamp, seq: e.Seq, Warning: Warning{Code: code, EventID: e.ID}})
}

// mergeBooks folds per asset books, given in asset order, into a single Book.
func mergeBooks(method LotMethod, books []*assetBook) *Book {
	out := &Book{Method: method, balances: make(map[string]Balance, len(books))}
	var ws []seqWarning
	for _, b := range books {
		out.balances[b.asset] = b.balance
		out.Lots = append(out.Lots, b.lots...)
		out.Disposals = append(out.Disposals, b.disposals...)
		ws = append(ws, b.warnings...)
		if len(b.lots) == 0 {
			continue
		}
		p := Position{AssetID: b.asset}
		for _, l := range b.lots {
			p.Amount = p.Amount.Add(l.AmountRemaining)
			p.CostBasisBase = p.CostBasisBase.Add(l.CostBasisRemaining)
		}
		out.Positions = append(out.Positions, p)
	}
	slices.SortStableFunc(out.Disposals, func(a, b Disposal) int {
		return compareEvents(a.DisposedAt, a.seq, b.DisposedAt, b.seq)
	})
	slices.SortStableFunc(ws, func(a, b seqWarning) int {
		if c := compareEvents(a.at, a.seq, b.at, b.seq); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	for _, w := range ws {
		out.Warnings = append(out.Warnings, w.Warning)
	}
	return out
}
