// Package models contains the GORM persistence models.
//
// Persistence models are kept separate from the domain entities so the
// database schema (column types, indexes, soft-delete markers) never leaks
// into the domain layer. Repositories convert between the two with the
// ToDomain/FromDomain helpers.
package models
