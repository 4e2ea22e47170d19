// Package networth tracks personal net worth: accounts, properties and
// imported bank transactions, posted into a double-entry ledger.
//
// The heart of the package is the booking engine. It turns an imported
// transaction line into a balanced booking by evaluating user-defined
// matching rules, keeps previously generated booking lines in sync when
// rules change, and reports rules whose criteria overlap.
//
// Persistence lives in the store subpackage; the engine itself consumes
// and produces plain records and holds no process-wide state.
package networth
