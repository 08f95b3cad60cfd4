// Package taxlots turns an append-only ledger of portfolio events into tax
// lots, realized gains and year-end holdings.
//
// The core functionalities include:
//   - Ledger Normalization: validating events, applying edits (supersede and
//     delete) and sorting the active events by timestamp.
//   - Lot Accounting: replaying the events under a lot method (FIFO, LIFO,
//     HIFO or AVG_COST) to open lots on acquisitions and match them on
//     disposals, with exact decimal arithmetic.
//   - Tax Reporting: building the disposals, reward income and year-end
//     holdings of a calendar year, with the lot method resolved from the
//     call, the tax profile or the settings.
//   - Valuation: projecting open positions with externally supplied prices.
//   - Data Persistence: encoding and decoding events in JSONL and reports in
//     JSON, with decimals always written as strings.
//
// Every call is stateless: the same events and settings always produce the
// same output. This package serves as the foundational logic for the
// `taxlots` command-line tool.
package taxlots
