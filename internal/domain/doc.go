// Package domain contains the core business entities, value objects, and
// domain logic of the application: flashcards, the generations that propose
// them, and the scheduling state the review engine operates on. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
