// Package platform abstracts the chat platform the bot runs on.
//
// The Messenger interface covers the five operations the bot needs: an
// update stream, replies, message deletion, pinned-message lookup, and
// administrator checks. The telegram subpackage provides the production
// adapter; tests use in-memory fakes.
//
// Deletion failures are classified: targets that are already gone (or that
// the platform refuses to delete, such as old service messages) surface as
// ErrMessageNotFound so purge passes can tolerate them, while everything
// else is a real error that aborts the pass.
package platform
