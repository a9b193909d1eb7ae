// Package api handles incoming HTTP requests, request validation and
// response formatting for flashcard ingestion, management and review. It
// acts as an adapter between external clients and the internal services,
// translating HTTP concerns to business operations.
//
// Handlers expect the principal ID in the request context. It is placed
// there by middleware.RequirePrincipal.
package api
