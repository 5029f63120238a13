// Package billing holds the payment side of the order core: the Payment
// aggregate and the append-only allocation ledger that records how a
// payment's amount is applied to orders.
//
// Ledger rows are immutable. An allocation is reversed by appending a
// REVERSAL row that back-references the original entry, so the algebraic
// sum of a ledger slice for an order is always that order's paid amount
// and the full history stays queryable.
package billing
