// Package models defines the core domain models for Splitsync.
//
// # Models
//
//   - User: registered account; UserRef is the resolved identity handed to
//     the ledger engine and API responses.
//   - Group: a named set of members who share expenses.
//   - Expense: one recorded expense paid by a single user and split among
//     participants according to a split policy.
//   - SplitLine: one participant's owed share of an expense, produced by the
//     split allocator. Derived data, never stored or mutated independently.
//   - SettlementPayment: a recorded settle-up payment between two users.
//
// # Design Principles
//
//  1. All monetary amounts are currency.Cents (integer base units); decimal
//     currency appears only in serialized output.
//  2. Participants are always user IDs. Display names are resolved once at
//     the data-fetch boundary into UserRef, never re-inferred downstream.
//  3. Relationships use ID strings instead of pointers to avoid circular
//     references.
package models
