// Package model defines the data structures exchanged with the JB Manager API.
//
// # Bot
//
// The [Bot] struct is a project as returned by GET /bots and GET /v2/bot/:
//
//	type Bot struct {
//	    ID                  string            // Bot identifier
//	    Name                string            // Display name
//	    Credits             float64           // Remaining credit balance
//	    Status              BotStatus         // active, configuration pending, ...
//	    Channels            []Channel         // Messaging channels attached to the bot
//	    RequiredCredentials []string          // Credential names the bot needs
//	    Credentials         map[string]string // Stored credential values
//	}
//
// # Channel
//
// A [Channel] belongs to exactly one bot and its lifecycle is managed by the
// server: create, update, delete, activate and deactivate are remote calls.
//
// # User
//
// The [User] struct is the logged-in administrator, built from the identity
// provider profile and registered with the backend.
package model
