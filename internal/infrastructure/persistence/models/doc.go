// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities are free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers (ToDomain / FromDomain) convert between the two
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: BaseModel and SoftDeleteModel shared by every table
// - payment.go: payments and paymentables
// - invoice.go: invoices
// - document.go: documents
// - invitation.go: invoice, quote and credit invitations, with users and client contacts
package models
