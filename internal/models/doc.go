// Package models defines the core domain models for fintrack.
//
// # Entities
//
//   - Transaction: a single dated money movement, income or expense
//   - Category: a user-defined label partitioning transactions by type and purpose
//   - Budget: a spending ceiling for one category over a recurring period
//   - User: a registered account owning the three collections above
//
// Every Transaction, Category and Budget carries the owning UserID. Collections
// from all users are persisted side by side and filtered by UserID on load.
//
// # Design Principles
//
// 1. **Wire compatibility**: JSON field names match the persisted layout
// (camelCase keys such as categoryId, isRecurring, createdAt) so exported
// documents can be imported unchanged.
// 2. **Explicit optionality**: recurrence is a tagged variant (Recurrence)
// instead of a field that may or may not exist.
// 3. **IDs, not pointers**: relationships use ID strings; a Transaction may
// reference a Category that no longer exists.
// 4. **Patches for updates**: partial updates use pointer fields, where nil
// keeps the current value.
//
// Amounts are float64 dollars. No decimal or currency handling is attempted.
package models
