// Package mocks provides centralized mock implementations of the store
// interfaces for service tests.
//
// Store mocks are built on testify/mock so tests can assert exactly which
// queries a use case issued, and which it never issued:
//
//	flashcards := &mocks.MockFlashcardStore{}
//	flashcards.On("GetByID", mock.Anything, cardID).Return(card, nil)
//	...
//	flashcards.AssertExpectations(t)
//	generations.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
//
// FakeTxRunner runs transaction functions inline without a database.
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Keep the package free of service imports so service tests can use it
package mocks
