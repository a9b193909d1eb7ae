// Package service contains the application use cases for flashcards.
//
// FlashcardService ingests batches of manual and AI-sourced flashcards,
// checking generation ownership in bulk and keeping generation acceptance
// counts current. It also covers single-card management (get, list, edit,
// delete). GenerationService exposes generation records to their owners.
//
// Services depend on the store interfaces in internal/store and a
// store.TxRunner, never on a concrete database. Errors are reported with the
// sentinels in errors.go so the API layer can map them to status codes.
package service
