// Package models contains GORM persistence models for aggregates whose domain
// types stay persistence-free. Aggregates that carry their own column tags
// (sequences, partners, services, ledger entries) are stored directly and do
// not appear here.
package models
